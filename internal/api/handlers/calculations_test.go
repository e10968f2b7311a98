package handlers_test

import (
	"net/http"
	"testing"

	"github.com/arlo/calcledger/internal/calc"
	"github.com/arlo/calcledger/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculationHandler_Create(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	tests := []struct {
		name           string
		request        map[string]interface{}
		expectedStatus int
		expectedResult float64
		expectedError  string
	}{
		{
			name:           "add",
			request:        map[string]interface{}{"a": 10.5, "b": 5.5, "type": "ADD"},
			expectedStatus: http.StatusCreated,
			expectedResult: 16.0,
		},
		{
			name:           "divide",
			request:        map[string]interface{}{"a": 10, "b": 4, "type": "DIVIDE"},
			expectedStatus: http.StatusCreated,
			expectedResult: 2.5,
		},
		{
			name:           "divide by zero",
			request:        map[string]interface{}{"a": 1, "b": 0, "type": "DIVIDE"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "division by zero",
		},
		{
			name:           "unsupported operation",
			request:        map[string]interface{}{"a": 1, "b": 2, "type": "POW"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "unsupported operation",
		},
		{
			name:           "missing type",
			request:        map[string]interface{}{"a": 1, "b": 2},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.DoJSON(t, ts, http.MethodPost, "/calculations", token, tt.request)
			defer resp.Body.Close()

			if tt.expectedError != "" {
				testutil.AssertErrorResponse(t, resp, tt.expectedStatus, tt.expectedError)
				return
			}

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusCreated {
				var record testutil.CalculationResponse
				testutil.AssertJSONResponse(t, resp, &record)
				assert.Equal(t, tt.expectedResult, record.Result)
			}
		})
	}

	t.Run("requires authentication", func(t *testing.T) {
		resp := testutil.DoJSON(t, ts, http.MethodPost, "/calculations", "", map[string]interface{}{
			"a": 1, "b": 2, "type": "ADD",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestCalculationHandler_DivideByZeroPersistsNothing(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	resp := testutil.DoJSON(t, ts, http.MethodPost, "/calculations", token, map[string]interface{}{
		"a": 1, "b": 0, "type": "DIVIDE",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	listResp := testutil.DoJSON(t, ts, http.MethodGet, "/calculations", token, nil)
	defer listResp.Body.Close()

	var records []testutil.CalculationResponse
	testutil.AssertJSONResponse(t, listResp, &records)
	assert.Empty(t, records)
}

func TestCalculationHandler_Update(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	record := testutil.CreateCalculation(t, ts, token, 10.5, 5.5, calc.Add)
	require.Equal(t, 16.0, record.Result)

	t.Run("patching the type recomputes the result", func(t *testing.T) {
		resp := testutil.DoJSON(t, ts, http.MethodPatch, "/calculations/"+record.ID, token, map[string]interface{}{
			"type": "MULTIPLY",
		})
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var updated testutil.CalculationResponse
		testutil.AssertJSONResponse(t, resp, &updated)
		assert.Equal(t, 57.75, updated.Result)
	})

	t.Run("patch into division by zero", func(t *testing.T) {
		resp := testutil.DoJSON(t, ts, http.MethodPatch, "/calculations/"+record.ID, token, map[string]interface{}{
			"b": 0, "type": "DIVIDE",
		})
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "division by zero")
	})

	t.Run("empty patch", func(t *testing.T) {
		resp := testutil.DoJSON(t, ts, http.MethodPatch, "/calculations/"+record.ID, token, map[string]interface{}{})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown id", func(t *testing.T) {
		resp := testutil.DoJSON(t, ts, http.MethodPatch, "/calculations/"+uuid.NewString(), token, map[string]interface{}{
			"a": 1,
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestCalculationHandler_OwnershipIsNotLeaked(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, aliceToken := testutil.NewUserBuilder().WithUsername("alice_h").BuildAndAuthenticate(t, ts)
	_, bobToken := testutil.NewUserBuilder().WithUsername("bob_h").BuildAndAuthenticate(t, ts)

	record := testutil.CreateCalculation(t, ts, aliceToken, 1, 2, calc.Add)

	// Bob probing Alice's record sees plain 404s everywhere
	get := testutil.DoJSON(t, ts, http.MethodGet, "/calculations/"+record.ID, bobToken, nil)
	get.Body.Close()
	assert.Equal(t, http.StatusNotFound, get.StatusCode)

	patch := testutil.DoJSON(t, ts, http.MethodPatch, "/calculations/"+record.ID, bobToken, map[string]interface{}{"a": 9})
	patch.Body.Close()
	assert.Equal(t, http.StatusNotFound, patch.StatusCode)

	del := testutil.DoJSON(t, ts, http.MethodDelete, "/calculations/"+record.ID, bobToken, nil)
	del.Body.Close()
	assert.Equal(t, http.StatusNotFound, del.StatusCode)

	// Alice still owns the intact record
	resp := testutil.DoJSON(t, ts, http.MethodGet, "/calculations/"+record.ID, aliceToken, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got testutil.CalculationResponse
	testutil.AssertJSONResponse(t, resp, &got)
	assert.Equal(t, 3.0, got.Result)
}

func TestCalculationHandler_ListAndDelete(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	var ids []string
	for i := 1; i <= 3; i++ {
		record := testutil.CreateCalculation(t, ts, token, float64(i), 1, calc.Add)
		ids = append(ids, record.ID)
	}

	t.Run("list with skip and limit", func(t *testing.T) {
		resp := testutil.DoJSON(t, ts, http.MethodGet, "/calculations?skip=1&limit=1", token, nil)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var records []testutil.CalculationResponse
		testutil.AssertJSONResponse(t, resp, &records)
		require.Len(t, records, 1)
		// Newest first: skip=1 lands on the second most recent
		assert.Equal(t, ids[1], records[0].ID)
	})

	t.Run("delete", func(t *testing.T) {
		resp := testutil.DoJSON(t, ts, http.MethodDelete, "/calculations/"+ids[0], token, nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		again := testutil.DoJSON(t, ts, http.MethodDelete, "/calculations/"+ids[0], token, nil)
		again.Body.Close()
		assert.Equal(t, http.StatusNotFound, again.StatusCode)
	})
}

func TestEventHandler_List(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	record := testutil.CreateCalculation(t, ts, token, 2, 2, calc.Multiply)

	patch := testutil.DoJSON(t, ts, http.MethodPatch, "/calculations/"+record.ID, token, map[string]interface{}{"a": 3})
	patch.Body.Close()
	require.Equal(t, http.StatusOK, patch.StatusCode)

	resp := testutil.DoJSON(t, ts, http.MethodGet, "/events", token, nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var events []struct {
		Action        string `json:"action"`
		CalculationID string `json:"calculationId"`
	}
	testutil.AssertJSONResponse(t, resp, &events)
	require.Len(t, events, 2)
	assert.Equal(t, "calculation.updated", events[0].Action)
	assert.Equal(t, "calculation.created", events[1].Action)
	assert.Equal(t, record.ID, events[0].CalculationID)
}
