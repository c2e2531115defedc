package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode_CompareFollowsLifecycleOrder(t *testing.T) {
	codes := AllStatusCodes()

	for i, a := range codes {
		for j, b := range codes {
			want := 0
			switch {
			case i < j:
				want = -1
			case i > j:
				want = 1
			}
			assert.Equal(t, want, a.Compare(b), "%s vs %s", a, b)
			assert.Equal(t, i >= j, a.IsAtLeast(b), "%s at least %s", a, b)
		}
	}
}

func TestStatusCode_IsAtLeast(t *testing.T) {
	assert.True(t, StatusFullyAttended.IsAtLeast(StatusBooked))
	assert.False(t, StatusRequested.IsAtLeast(StatusBooked))
	assert.True(t, StatusBooked.IsAtLeast(StatusBooked))
}

func TestStatusCode_IsActive(t *testing.T) {
	active := map[StatusCode]bool{
		StatusRequested:  true,
		StatusApproved:   true,
		StatusWaitlisted: true,
		StatusBooked:     true,
	}
	for _, code := range AllStatusCodes() {
		assert.Equal(t, active[code], code.IsActive(), code.String())
	}
}

func TestStatusCode_Names(t *testing.T) {
	code, err := ParseStatusCode(" Fully_Attended ")
	require.NoError(t, err)
	assert.Equal(t, StatusFullyAttended, code)

	_, err = ParseStatusCode("attending")
	assert.Error(t, err)

	assert.False(t, StatusCode(45).Valid())
	assert.Equal(t, "status(45)", StatusCode(45).String())
}

func TestStatusCode_JSON(t *testing.T) {
	body, err := json.Marshal(map[string]StatusCode{"status": StatusNoShow})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"no_show"}`, string(body))

	var decoded struct {
		Status StatusCode `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"status":"waitlisted"}`), &decoded))
	assert.Equal(t, StatusWaitlisted, decoded.Status)

	_, err = json.Marshal(StatusCode(45))
	assert.Error(t, err)
}
