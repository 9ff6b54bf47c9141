package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/weareasocialyazilim/travelmatch/internal/application/duplicate"
	"github.com/weareasocialyazilim/travelmatch/internal/application/verification"
	"github.com/weareasocialyazilim/travelmatch/internal/domain"
)

// --- mocks ---

type mockVerifySvc struct{ mock.Mock }

func (m *mockVerifySvc) Verify(ctx context.Context, req verification.VerifyRequest) (*domain.VerificationResult, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*domain.VerificationResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockVerifySvc) History(ctx context.Context, userID string, limit int32) ([]domain.VerificationRecord, error) {
	args := m.Called(ctx, userID, limit)
	if recs, _ := args.Get(0).([]domain.VerificationRecord); recs != nil {
		return recs, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockDupSvc struct{ mock.Mock }

func (m *mockDupSvc) Check(ctx context.Context, req duplicate.CheckRequest) (*domain.DuplicateResult, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*domain.DuplicateResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

func postJSON(t *testing.T, h http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func validVerifyBody() map[string]interface{} {
	return map[string]interface{}{
		"image_url":  "https://cdn.example.com/proofs/p1.jpg",
		"proof_type": "selfie_with_id",
		"user_id":    "user-1",
	}
}

// --- Verify tests ---

func TestVerifyEndpoint_OK(t *testing.T) {
	vs, ds := &mockVerifySvc{}, &mockDupSvc{}
	vs.On("Verify", mock.Anything, mock.Anything).Return(&domain.VerificationResult{
		Approved:     true,
		Status:       domain.StatusApproved,
		OverallScore: 88.0,
		Issues:       []string{},
		Suggestions:  []string{},
	}, nil)

	rr := postJSON(t, NewProofHandler(vs, ds).Verify, "/v1/proofs/verify", validVerifyBody())

	assert.Equal(t, http.StatusOK, rr.Code)
	var result domain.VerificationResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.True(t, result.Approved)
	assert.Equal(t, 88.0, result.OverallScore)
}

func TestVerifyEndpoint_InvalidBody(t *testing.T) {
	vs, ds := &mockVerifySvc{}, &mockDupSvc{}
	h := NewProofHandler(vs, ds)

	req := httptest.NewRequest(http.MethodPost, "/v1/proofs/verify", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.Verify).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	vs.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestVerifyEndpoint_UnknownProofType(t *testing.T) {
	vs, ds := &mockVerifySvc{}, &mockDupSvc{}

	body := validVerifyBody()
	body["proof_type"] = "hologram"
	rr := postJSON(t, NewProofHandler(vs, ds).Verify, "/v1/proofs/verify", body)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	vs.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestVerifyEndpoint_MissingUserID(t *testing.T) {
	vs, ds := &mockVerifySvc{}, &mockDupSvc{}

	body := validVerifyBody()
	delete(body, "user_id")
	rr := postJSON(t, NewProofHandler(vs, ds).Verify, "/v1/proofs/verify", body)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestVerifyEndpoint_UpstreamFailure(t *testing.T) {
	vs, ds := &mockVerifySvc{}, &mockDupSvc{}
	vs.On("Verify", mock.Anything, mock.Anything).Return(nil, domain.ErrUpstream)

	rr := postJSON(t, NewProofHandler(vs, ds).Verify, "/v1/proofs/verify", validVerifyBody())

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

// --- CheckDuplicate tests ---

func TestDuplicateEndpoint_OK(t *testing.T) {
	vs, ds := &mockVerifySvc{}, &mockDupSvc{}
	ds.On("Check", mock.Anything, mock.Anything).Return(&domain.DuplicateResult{
		IsDuplicate: true,
		Duplicates:  []domain.DuplicateMatch{{OriginalUserID: "user-9", Similarity: 1.0}},
		PHash:       "aaaabbbbccccdddd",
		RiskLevel:   domain.RiskCritical,
	}, nil)

	body := map[string]interface{}{
		"image_url": "https://cdn.example.com/proofs/p1.jpg",
		"user_id":   "user-1",
		"moment_id": "moment-1",
	}
	rr := postJSON(t, NewProofHandler(vs, ds).CheckDuplicate, "/v1/proofs/duplicate-check", body)

	assert.Equal(t, http.StatusOK, rr.Code)
	var result domain.DuplicateResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.True(t, result.IsDuplicate)
	assert.Equal(t, domain.RiskCritical, result.RiskLevel)
}

func TestDuplicateEndpoint_MissingImageURL(t *testing.T) {
	vs, ds := &mockVerifySvc{}, &mockDupSvc{}

	rr := postJSON(t, NewProofHandler(vs, ds).CheckDuplicate, "/v1/proofs/duplicate-check",
		map[string]interface{}{"user_id": "user-1"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	ds.AssertNotCalled(t, "Check", mock.Anything, mock.Anything)
}

// --- History tests ---

func TestHistoryEndpoint_OK(t *testing.T) {
	vs := &mockVerifySvc{}
	vs.On("History", mock.Anything, "user-1", int32(10)).Return([]domain.VerificationRecord{
		{VerificationID: "v1", UserID: "user-1", Status: domain.StatusApproved},
	}, nil)

	r := chi.NewRouter()
	r.Get("/v1/users/{userID}/verifications", NewVerificationHandler(vs).ListByUser)

	req := httptest.NewRequest(http.MethodGet, "/v1/users/user-1/verifications?limit=10", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var envelope HistoryEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	assert.Equal(t, "user-1", envelope.UserID)
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "v1", envelope.Data[0].VerificationID)
}

func TestHistoryEndpoint_InvalidLimit(t *testing.T) {
	vs := &mockVerifySvc{}

	r := chi.NewRouter()
	r.Get("/v1/users/{userID}/verifications", NewVerificationHandler(vs).ListByUser)

	req := httptest.NewRequest(http.MethodGet, "/v1/users/user-1/verifications?limit=abc", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	vs.AssertNotCalled(t, "History", mock.Anything, mock.Anything, mock.Anything)
}
