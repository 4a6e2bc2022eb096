package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"solana-staking-vault/internal/auth"
	"solana-staking-vault/internal/domain"
	"solana-staking-vault/internal/staking"
	"solana-staking-vault/internal/storage"
)

// Envelope operation names. These match the event kinds so a client
// can correlate its request with the feed.
const (
	opCreatePool               = string(domain.OpCreatePool)
	opFundPool                 = string(domain.OpFundPool)
	opChangeCooldown           = string(domain.OpChangeCooldown)
	opEnableEmergencyMode      = string(domain.OpEnableEmergencyMode)
	opStake                    = string(domain.OpStake)
	opActivateCooldown         = string(domain.OpActivateCooldown)
	opUnstake                  = string(domain.OpUnstake)
	opEmergencyUnstake         = string(domain.OpEmergencyUnstake)
	opWithdrawRewardsEmergency = string(domain.OpWithdrawRewardsEmergency)
)

// Operation payloads. Amounts and ids are decimal strings on the wire
// so uint64 values survive JSON number handling in non-Go clients.
type createPoolPayload struct {
	PoolID           uint64 `json:"pool_id,string"`
	InitialFunding   uint64 `json:"initial_funding,string"`
	CooldownDuration int64  `json:"cooldown_duration"`
}

type fundPoolPayload struct {
	Pool   string `json:"pool"`
	Amount uint64 `json:"amount,string"`
}

type changeCooldownPayload struct {
	Pool             string `json:"pool"`
	CooldownDuration int64  `json:"cooldown_duration"`
}

type poolTargetPayload struct {
	Pool string `json:"pool"`
}

type stakePayload struct {
	Pool      string `json:"pool"`
	DepositID uint64 `json:"deposit_id,string"`
	Amount    uint64 `json:"amount,string"`
}

type depositTargetPayload struct {
	Deposit string `json:"deposit"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleOperation returns the handler for one operation endpoint. It
// decodes and verifies the signed envelope, then dispatches to the
// engine with the verified signer as the acting party.
func (s *Server) handleOperation(op string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var env auth.Envelope
		if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
			writeError(w, http.StatusBadRequest, "BAD_ENVELOPE", "request body is not a valid envelope")
			return
		}
		if env.Operation != op {
			writeError(w, http.StatusBadRequest, "OPERATION_MISMATCH", "envelope operation does not match endpoint")
			return
		}
		if err := auth.Verify(&env); err != nil {
			writeError(w, http.StatusForbidden, "BAD_SIGNATURE", err.Error())
			return
		}

		result, err := s.dispatch(r, op, &env)
		if err != nil {
			writeOperationError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// dispatch unmarshals the operation payload and runs the engine call.
func (s *Server) dispatch(r *http.Request, op string, env *auth.Envelope) (any, error) {
	ctx := r.Context()
	signer := env.Signer

	switch op {
	case opCreatePool:
		var p createPoolPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, badPayload(err)
		}
		address, err := s.engine.CreatePool(ctx, signer, p.PoolID, p.InitialFunding, p.CooldownDuration)
		if err != nil {
			return nil, err
		}
		return map[string]string{"pool": address}, nil

	case opFundPool:
		var p fundPoolPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, badPayload(err)
		}
		if err := s.engine.FundPool(ctx, signer, p.Pool, p.Amount); err != nil {
			return nil, err
		}
		return map[string]string{"pool": p.Pool}, nil

	case opChangeCooldown:
		var p changeCooldownPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, badPayload(err)
		}
		if err := s.engine.ChangeCooldown(ctx, signer, p.Pool, p.CooldownDuration); err != nil {
			return nil, err
		}
		return map[string]string{"pool": p.Pool}, nil

	case opEnableEmergencyMode:
		var p poolTargetPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, badPayload(err)
		}
		if err := s.engine.EnableEmergencyMode(ctx, signer, p.Pool); err != nil {
			return nil, err
		}
		return map[string]string{"pool": p.Pool}, nil

	case opWithdrawRewardsEmergency:
		var p poolTargetPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, badPayload(err)
		}
		amount, err := s.engine.WithdrawRewardsEmergency(ctx, signer, p.Pool)
		if err != nil {
			return nil, err
		}
		return map[string]any{"pool": p.Pool, "amount": u64str(amount)}, nil

	case opStake:
		var p stakePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, badPayload(err)
		}
		address, err := s.engine.Stake(ctx, signer, p.Pool, p.DepositID, p.Amount)
		if err != nil {
			return nil, err
		}
		return map[string]string{"deposit": address}, nil

	case opActivateCooldown:
		var p depositTargetPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, badPayload(err)
		}
		unlockTime, err := s.engine.ActivateCooldown(ctx, signer, p.Deposit)
		if err != nil {
			return nil, err
		}
		return map[string]any{"deposit": p.Deposit, "unlock_time": unlockTime}, nil

	case opUnstake:
		var p depositTargetPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, badPayload(err)
		}
		principal, reward, err := s.engine.Unstake(ctx, signer, p.Deposit)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"deposit":   p.Deposit,
			"principal": u64str(principal),
			"reward":    u64str(reward),
		}, nil

	case opEmergencyUnstake:
		var p depositTargetPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, badPayload(err)
		}
		principal, err := s.engine.EmergencyUnstake(ctx, signer, p.Deposit)
		if err != nil {
			return nil, err
		}
		return map[string]any{"deposit": p.Deposit, "principal": u64str(principal)}, nil
	}

	return nil, errUnknownOperation
}

var errUnknownOperation = errors.New("unknown operation")

func badPayload(err error) error {
	return &payloadError{cause: err}
}

// payloadError marks a payload that failed to decode; reported as 400
// without entering the engine.
type payloadError struct {
	cause error
}

func (e *payloadError) Error() string { return "invalid payload: " + e.cause.Error() }

// writeOperationError maps the engine error taxonomy onto HTTP status
// codes and writes a machine-readable body.
func writeOperationError(w http.ResponseWriter, err error) {
	var pe *payloadError
	if errors.As(err, &pe) {
		writeError(w, http.StatusBadRequest, "BAD_PAYLOAD", pe.Error())
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, staking.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, staking.ErrAuthorization):
		status = http.StatusForbidden
	case errors.Is(err, staking.ErrState):
		status = http.StatusConflict
	case errors.Is(err, staking.ErrArithmetic), errors.Is(err, staking.ErrResource):
		status = http.StatusUnprocessableEntity
	}

	code := staking.Code(err)
	if code == "" {
		code = "INTERNAL"
	}
	writeError(w, status, code, err.Error())
}

// Read endpoints.

type poolView struct {
	Address          string `json:"address"`
	PoolID           string `json:"pool_id"`
	Creator          string `json:"creator"`
	TotalStaked      string `json:"total_staked"`
	TotalRewards     string `json:"total_rewards"`
	CooldownDuration int64  `json:"cooldown_duration"`
	State            string `json:"state"`
}

type depositView struct {
	Address        string `json:"address"`
	DepositID      string `json:"deposit_id"`
	Pool           string `json:"pool"`
	Staker         string `json:"staker"`
	Amount         string `json:"amount"`
	ClaimedReward  string `json:"claimed_reward"`
	UnlockTime     int64  `json:"unlock_time"`
	CooldownActive bool   `json:"cooldown_active"`
	Withdrawn      bool   `json:"withdrawn"`
}

type stakerStatsView struct {
	Address     string `json:"address"`
	Staker      string `json:"staker"`
	TotalStaked string `json:"total_staked"`
}

type eventView struct {
	EventID   string `json:"event_id"`
	Kind      string `json:"kind"`
	Pool      string `json:"pool"`
	Actor     string `json:"actor"`
	Deposit   string `json:"deposit,omitempty"`
	Amount    string `json:"amount"`
	Reward    string `json:"reward"`
	Timestamp int64  `json:"timestamp"`
}

func (s *Server) handleGetPool(w http.ResponseWriter, r *http.Request) {
	pool, err := s.reads.Pools().GetByAddress(r.Context(), r.PathValue("address"))
	if err != nil {
		writeReadError(w, err, "pool not found")
		return
	}
	writeJSON(w, http.StatusOK, poolView{
		Address:          pool.Address,
		PoolID:           u64str(pool.PoolID),
		Creator:          pool.Creator,
		TotalStaked:      u64str(pool.TotalStaked),
		TotalRewards:     u64str(pool.TotalRewards),
		CooldownDuration: pool.CooldownDuration,
		State:            string(pool.State),
	})
}

func (s *Server) handleGetDeposit(w http.ResponseWriter, r *http.Request) {
	dep, err := s.reads.Deposits().GetByAddress(r.Context(), r.PathValue("address"))
	if err != nil {
		writeReadError(w, err, "deposit not found")
		return
	}
	writeJSON(w, http.StatusOK, depositView{
		Address:        dep.Address,
		DepositID:      u64str(dep.DepositID),
		Pool:           dep.Pool,
		Staker:         dep.Staker,
		Amount:         u64str(dep.Amount),
		ClaimedReward:  u64str(dep.ClaimedReward),
		UnlockTime:     dep.UnlockTime,
		CooldownActive: dep.CooldownActive,
		Withdrawn:      dep.Withdrawn,
	})
}

func (s *Server) handleGetStakerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.reads.StakerStats().GetByAddress(r.Context(), r.PathValue("address"))
	if err != nil {
		writeReadError(w, err, "staker stats not found")
		return
	}
	writeJSON(w, http.StatusOK, stakerStatsView{
		Address:     stats.Address,
		Staker:      stats.Staker,
		TotalStaked: u64str(stats.TotalStaked),
	})
}

func (s *Server) handleGetPoolEvents(w http.ResponseWriter, r *http.Request) {
	if s.events == nil {
		writeError(w, http.StatusServiceUnavailable, "NO_ARCHIVE", "event archive is not configured")
		return
	}
	events, err := s.events.GetByPool(r.Context(), r.PathValue("address"))
	if err != nil {
		s.logger.Printf("get pool events: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "failed to read events")
		return
	}
	views := make([]eventView, 0, len(events))
	for _, e := range events {
		views = append(views, eventView{
			EventID:   e.EventID,
			Kind:      string(e.Kind),
			Pool:      e.Pool,
			Actor:     e.Actor,
			Deposit:   e.Deposit,
			Amount:    u64str(e.Amount),
			Reward:    u64str(e.Reward),
			Timestamp: e.Timestamp,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": views})
}

// handleCredit seeds an account balance. Dev-only endpoint, not
// signature gated.
func (s *Server) handleCredit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Account string `json:"account"`
		Amount  uint64 `json:"amount,string"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_PAYLOAD", "request body is not valid JSON")
		return
	}
	if req.Account == "" || req.Amount == 0 {
		writeError(w, http.StatusBadRequest, "BAD_PAYLOAD", "account and a positive amount are required")
		return
	}
	if err := s.credit(r.Context(), req.Account, req.Amount); err != nil {
		s.logger.Printf("credit %s: %v", req.Account, err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "failed to credit account")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"account": req.Account, "amount": u64str(req.Amount)})
}

func writeReadError(w http.ResponseWriter, err error, notFoundMsg string) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", notFoundMsg)
		return
	}
	writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]errorBody{"error": {Code: code, Message: message}})
}

func u64str(v uint64) string {
	return strconv.FormatUint(v, 10)
}
