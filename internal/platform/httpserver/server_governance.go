package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	governanceerrors "desci/contexts/governance/governance-accounting/domain/errors"
	governancehttp "desci/contexts/governance/governance-accounting/transport/http"
)

const walletHeader = "X-Wallet-Address"

// maxBodyBytes bounds request bodies; proposal descriptions are the largest.
const maxBodyBytes = 64 << 10

func (s *Server) handleRegisterProject(w http.ResponseWriter, r *http.Request) {
	var req governancehttp.RegisterProjectRequest
	if !decodeGovernanceBody(w, r, &req) {
		return
	}
	resp, err := s.governance.Handler.RegisterProjectHandler(r.Context(), req)
	if err != nil {
		s.writeGovernanceDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	resp, err := s.governance.Handler.GetProjectHandler(r.Context(), r.PathValue("project_id"))
	if err != nil {
		s.writeGovernanceDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListProposals(w http.ResponseWriter, r *http.Request) {
	resp, err := s.governance.Handler.ListProposalsHandler(r.Context(), r.PathValue("project_id"))
	if err != nil {
		s.writeGovernanceDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateProposal(w http.ResponseWriter, r *http.Request) {
	wallet, ok := requireWallet(w, r)
	if !ok {
		return
	}
	var req governancehttp.CreateProposalRequest
	if !decodeGovernanceBody(w, r, &req) {
		return
	}
	resp, err := s.governance.Handler.CreateProposalHandler(r.Context(), r.PathValue("project_id"), wallet, req)
	if err != nil {
		s.writeGovernanceDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	resp, err := s.governance.Handler.GetProposalHandler(r.Context(), r.PathValue("proposal_id"))
	if err != nil {
		s.writeGovernanceDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProposalTally(w http.ResponseWriter, r *http.Request) {
	resp, err := s.governance.Handler.ProposalTallyHandler(r.Context(), r.PathValue("proposal_id"))
	if err != nil {
		s.writeGovernanceDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	wallet, ok := requireWallet(w, r)
	if !ok {
		return
	}
	var req governancehttp.CastVoteRequest
	if !decodeGovernanceBody(w, r, &req) {
		return
	}
	resp, err := s.governance.Handler.CastVoteHandler(r.Context(), r.PathValue("proposal_id"), wallet, req)
	if err != nil {
		s.writeGovernanceDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetPrice(w http.ResponseWriter, r *http.Request) {
	amount := 0.0
	if raw := strings.TrimSpace(r.URL.Query().Get("amount")); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeGovernanceError(w, http.StatusBadRequest, "invalid_amount", "amount must be a number")
			return
		}
		amount = parsed
	}
	resp, err := s.governance.Handler.PriceHandler(r.Context(), r.PathValue("project_id"), amount)
	if err != nil {
		s.writeGovernanceDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecordPurchase(w http.ResponseWriter, r *http.Request) {
	wallet, ok := requireWallet(w, r)
	if !ok {
		return
	}
	var req governancehttp.RecordPurchaseRequest
	if !decodeGovernanceBody(w, r, &req) {
		return
	}
	resp, err := s.governance.Handler.RecordPurchaseHandler(r.Context(), r.PathValue("project_id"), wallet, req)
	if err != nil {
		s.writeGovernanceDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListPurchases(w http.ResponseWriter, r *http.Request) {
	resp, err := s.governance.Handler.ListPurchasesHandler(r.Context(), r.PathValue("project_id"))
	if err != nil {
		s.writeGovernanceDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func requireWallet(w http.ResponseWriter, r *http.Request) (string, bool) {
	wallet := strings.TrimSpace(r.Header.Get(walletHeader))
	if wallet == "" {
		writeGovernanceError(w, http.StatusUnauthorized, "missing_wallet", walletHeader+" header is required")
		return "", false
	}
	return wallet, true
}

func decodeGovernanceBody(w http.ResponseWriter, r *http.Request, target any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}

func (s *Server) writeGovernanceDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, governanceerrors.ErrValidation):
		writeGovernanceError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, governanceerrors.ErrProjectNotFound):
		writeGovernanceError(w, http.StatusNotFound, "project_not_found", err.Error())
	case errors.Is(err, governanceerrors.ErrProposalNotFound):
		writeGovernanceError(w, http.StatusNotFound, "proposal_not_found", err.Error())
	case errors.Is(err, governanceerrors.ErrUserNotFound):
		writeGovernanceError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, governanceerrors.ErrVotingClosed):
		writeGovernanceError(w, http.StatusConflict, "voting_closed", err.Error())
	case errors.Is(err, governanceerrors.ErrAlreadyVoted):
		writeGovernanceError(w, http.StatusConflict, "already_voted", err.Error())
	case errors.Is(err, governanceerrors.ErrConflict):
		writeGovernanceError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, governanceerrors.ErrInsufficientBalance):
		writeGovernanceError(w, http.StatusForbidden, "insufficient_balance", err.Error())
	case errors.Is(err, governanceerrors.ErrOracleUnavailable):
		writeGovernanceError(w, http.StatusServiceUnavailable, "oracle_unavailable", "token balance could not be read")
	default:
		s.logger.Error("governance request failed",
			"event", "http_governance_request_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error(),
		)
		writeGovernanceError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeGovernanceError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, governancehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
