package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/contractgov/contract-api/internal/domain"
	"github.com/contractgov/contract-api/internal/http/handler"
	"github.com/contractgov/contract-api/internal/repository"
	"github.com/contractgov/contract-api/internal/service"
	"github.com/contractgov/contract-api/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createContractHandler(db *gorm.DB) *handler.ContractHandler {
	svc := service.NewContractService(repository.NewContractRepository(db), zap.NewNop())
	return handler.NewContractHandler(svc, zap.NewNop())
}

// withChiContext adds Chi route context with the given URL parameters
func withChiContext(ctx context.Context, params map[string]string) context.Context {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return context.WithValue(ctx, chi.RouteCtxKey, rctx)
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func contractPayload(agency, state string) map[string]interface{} {
	return map[string]interface{}{
		"clienteOrgao":    agency,
		"estado":          state,
		"valorGlobal":     180000.5,
		"status":          "Ativo",
		"qtdeElevadores":  2,
		"qtdePlataformas": 1,
		"dataInicio":      "2026-03-10",
		"prazoExecucao":   "2026-12-01",
		"contatos": []map[string]string{
			{"nome": "Marina Costa", "email": "marina@saude.ba.gov.br", "telefone": "71 3333-0000"},
			{"nome": "  "},
		},
	}
}

func createViaHandler(t *testing.T, h *handler.ContractHandler, ctx context.Context, payload map[string]interface{}) domain.UpsertContractResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contracts", jsonBody(t, payload)).WithContext(ctx)
	rr := httptest.NewRecorder()
	h.Create(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp domain.UpsertContractResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestContractHandler_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createContractHandler(db)
	user := testutil.CreateTestUser(t, db, testutil.UniqueEmail("handler"))
	ctx := testutil.UserContext(user)

	t.Run("valid payload", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/contracts", jsonBody(t, contractPayload("Secretaria de Saúde", "ba"))).WithContext(ctx)
		rr := httptest.NewRecorder()
		h.Create(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		var resp domain.UpsertContractResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "/api/v1/contracts/"+resp.ID.String(), rr.Header().Get("Location"))
		assert.Equal(t, "BA", resp.Contract.State)
		require.Len(t, resp.Contract.Contacts, 1)
		assert.Equal(t, "Marina Costa", resp.Contract.Contacts[0].Name)
		require.NotNil(t, resp.Contract.Deadline)
		assert.Equal(t, "2026-12-01", resp.Contract.Deadline.String())
	})

	tests := []struct {
		name   string
		mutate func(p map[string]interface{})
		field  string
	}{
		{name: "missing agency", mutate: func(p map[string]interface{}) { delete(p, "clienteOrgao") }, field: "clienteOrgao"},
		{name: "blank agency", mutate: func(p map[string]interface{}) { p["clienteOrgao"] = "   " }, field: "clienteOrgao"},
		{name: "unknown state", mutate: func(p map[string]interface{}) { p["estado"] = "XX" }, field: "estado"},
		{name: "unknown status", mutate: func(p map[string]interface{}) { p["status"] = "Arquivado" }, field: "status"},
		{name: "negative value", mutate: func(p map[string]interface{}) { p["valorGlobal"] = -1 }, field: "valorGlobal"},
		{name: "bad contact email", mutate: func(p map[string]interface{}) {
			p["contatos"] = []map[string]string{{"nome": "Ana", "email": "not-an-email"}}
		}, field: "contatos[0].email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := contractPayload("Secretaria de Saúde", "BA")
			tt.mutate(payload)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/contracts", jsonBody(t, payload)).WithContext(ctx)
			rr := httptest.NewRecorder()
			h.Create(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			var apiErr domain.APIError
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &apiErr))
			assert.Equal(t, domain.ErrorTypeValidation, apiErr.Type)
			assert.Contains(t, apiErr.Errors, tt.field)
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/contracts", bytes.NewBufferString("{")).WithContext(ctx)
		rr := httptest.NewRecorder()
		h.Create(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/contracts", jsonBody(t, contractPayload("Secretaria", "BA"))).
			WithContext(testutil.AnonymousContext())
		rr := httptest.NewRecorder()
		h.Create(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestContractHandler_GetUpdateDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createContractHandler(db)
	user := testutil.CreateTestUser(t, db, testutil.UniqueEmail("handler"))
	ctx := testutil.UserContext(user)

	created := createViaHandler(t, h, ctx, contractPayload("Tribunal Regional", "PE"))
	idParam := map[string]string{"id": created.ID.String()}

	t.Run("get", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/contracts/"+created.ID.String(), nil).
			WithContext(withChiContext(ctx, idParam))
		rr := httptest.NewRecorder()
		h.GetByID(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var got domain.ContractDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "Tribunal Regional", got.ClientAgency)
	})

	t.Run("get with invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/contracts/abc", nil).
			WithContext(withChiContext(ctx, map[string]string{"id": "abc"}))
		rr := httptest.NewRecorder()
		h.GetByID(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("other owner sees not found", func(t *testing.T) {
		other := testutil.CreateTestUser(t, db, testutil.UniqueEmail("other"))
		req := httptest.NewRequest(http.MethodGet, "/api/v1/contracts/"+created.ID.String(), nil).
			WithContext(withChiContext(testutil.UserContext(other), idParam))
		rr := httptest.NewRecorder()
		h.GetByID(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("update replaces contacts", func(t *testing.T) {
		payload := contractPayload("Tribunal Regional Federal", "PE")
		payload["status"] = "Encerrado"
		payload["contatos"] = []map[string]string{{"nome": "Rafael"}, {"nome": "Sofia"}}

		req := httptest.NewRequest(http.MethodPut, "/api/v1/contracts/"+created.ID.String(), jsonBody(t, payload)).
			WithContext(withChiContext(ctx, idParam))
		rr := httptest.NewRecorder()
		h.Update(rr, req)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var resp domain.UpsertContractResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, created.ID, resp.ID)
		assert.Equal(t, domain.ContractStatusClosed, resp.Contract.Status)
		require.Len(t, resp.Contract.Contacts, 2)
		assert.Equal(t, "Rafael", resp.Contract.Contacts[0].Name)
	})

	t.Run("update unknown id", func(t *testing.T) {
		missing := uuid.New().String()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/contracts/"+missing, jsonBody(t, contractPayload("Órgão", "SP"))).
			WithContext(withChiContext(ctx, map[string]string{"id": missing}))
		rr := httptest.NewRecorder()
		h.Update(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("delete", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/contracts/"+created.ID.String(), nil).
			WithContext(withChiContext(ctx, idParam))
		rr := httptest.NewRecorder()
		h.Delete(rr, req)
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = httptest.NewRecorder()
		h.Delete(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestContractHandler_ListAndDraft(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createContractHandler(db)
	user := testutil.CreateTestUser(t, db, testutil.UniqueEmail("handler"))
	ctx := testutil.UserContext(user)

	createViaHandler(t, h, ctx, contractPayload("Prefeitura de Manaus", "AM"))
	createViaHandler(t, h, ctx, contractPayload("Assembleia Legislativa", "RS"))

	tests := []struct {
		query string
		want  int
	}{
		{query: "", want: 2},
		{query: "?search=manaus", want: 1},
		{query: "?search=rs", want: 1},
		{query: "?search=goiania", want: 0},
	}
	for _, tt := range tests {
		t.Run("list"+tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/contracts"+tt.query, nil).WithContext(ctx)
			rr := httptest.NewRecorder()
			h.List(rr, req)

			require.Equal(t, http.StatusOK, rr.Code)
			var list []domain.ContractDTO
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
			assert.Len(t, list, tt.want)
		})
	}

	t.Run("draft", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/contracts/draft", nil).WithContext(ctx)
		rr := httptest.NewRecorder()
		h.Draft(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var draft domain.ContractDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &draft))
		assert.Equal(t, domain.ContractStatusPending, draft.Status)
		assert.Nil(t, draft.ID)
		assert.Len(t, draft.Contacts, 1)
	})
}
