package handlers

import (
	"time"

	"beamscan/internal/domain/scan"
	domainErrors "beamscan/internal/errors"
	"beamscan/internal/models"
	"beamscan/internal/services/remotescan"
)

type ResolveRequest struct {
	Mode    string `json:"mode"`
	Payload string `json:"payload"`
}

type OpenSessionRequest struct {
	Mode       string `json:"mode"`
	Permission string `json:"permission"`
	// Device is false when the client has no usable camera.
	Device *bool `json:"device"`
}

type PermissionAnswer struct {
	Granted *bool `json:"granted"`
}

type FrameRequest struct {
	Payload string `json:"payload"`
}

type CreateAddressRequest struct {
	WalletID  string `json:"wallet_id"`
	Label     string `json:"label"`
	Own       bool   `json:"own"`
	ExpiresIn string `json:"expires_in"` // Go duration, empty for never
}

type OutcomeResponse struct {
	Result     *scan.Result `json:"result,omitempty"`
	Code       string       `json:"code,omitempty"`
	Message    string       `json:"message"`
	ResolvedAt time.Time    `json:"resolved_at"`
}

type SessionResponse struct {
	ID           string               `json:"id"`
	Mode         scan.Mode            `json:"mode"`
	Phase        string               `json:"phase"`
	Permission   scan.PermissionState `json:"permission"`
	Prompting    bool                 `json:"prompting"`
	Capturing    bool                 `json:"capturing"`
	Acknowledged int                  `json:"acknowledged"`
	Attempts     int                  `json:"attempts"`
	LastReason   scan.InvalidReason   `json:"last_reason,omitempty"`
	Notice       string               `json:"notice,omitempty"`
	DeviceID     string               `json:"device_id,omitempty"`
	Outcome      *OutcomeResponse     `json:"outcome,omitempty"`
}

type AddressResponse struct {
	ID        uint       `json:"id"`
	WalletID  string     `json:"wallet_id"`
	Label     string     `json:"label"`
	Own       bool       `json:"own"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Expired   bool       `json:"expired"`
}

type ScanRecordResponse struct {
	ID          uint      `json:"id"`
	SessionID   string    `json:"session_id,omitempty"`
	DeviceID    string    `json:"device_id,omitempty"`
	Source      string    `json:"source"`
	Mode        string    `json:"mode"`
	Outcome     string    `json:"outcome"`
	Address     string    `json:"address,omitempty"`
	Amount      *string   `json:"amount,omitempty"`
	IdentityID  string    `json:"identity_id,omitempty"`
	FailureCode string    `json:"failure_code,omitempty"`
	PayloadHash string    `json:"payload_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// resultMessage is the user-facing line for a classification.
func resultMessage(res scan.Result) string {
	if res.IsSuccess() {
		return domainErrors.MessageResolved
	}
	return domainErrors.MessageTryAgain
}

func toSessionResponse(v *remotescan.View) SessionResponse {
	resp := SessionResponse{
		ID:           v.ID.String(),
		Mode:         v.Mode,
		Phase:        string(v.Phase),
		Permission:   v.Permission,
		Prompting:    v.Prompting,
		Capturing:    v.Capturing,
		Acknowledged: v.Acknowledged,
		Attempts:     v.Attempts,
		LastReason:   v.LastReason,
		DeviceID:     v.DeviceID,
	}
	if v.LastReason != "" && v.Outcome == nil {
		resp.Notice = domainErrors.MessageTryAgain
	}
	if o := v.Outcome; o != nil {
		out := &OutcomeResponse{ResolvedAt: o.ResolvedAt}
		if o.Err != nil {
			out.Code = domainErrors.CodeOf(o.Err)
			out.Message = domainErrors.UserMessage(o.Err)
		} else {
			res := o.Result
			out.Result = &res
			out.Message = resultMessage(res)
		}
		resp.Outcome = out
	}
	return resp
}

func toAddressResponse(a *models.Address, now time.Time) AddressResponse {
	return AddressResponse{
		ID:        a.ID,
		WalletID:  a.WalletID,
		Label:     a.Label,
		Own:       a.Own,
		CreatedAt: a.CreatedAt,
		ExpiresAt: a.ExpiresAt,
		Expired:   a.IsExpired(now),
	}
}

func toScanRecordResponse(r *models.ScanRecord) ScanRecordResponse {
	return ScanRecordResponse{
		ID:          r.ID,
		SessionID:   r.SessionID,
		DeviceID:    r.DeviceID,
		Source:      r.Source,
		Mode:        r.Mode,
		Outcome:     r.Outcome,
		Address:     r.Address,
		Amount:      r.Amount,
		IdentityID:  r.IdentityID,
		FailureCode: r.FailureCode,
		PayloadHash: r.PayloadHash,
		CreatedAt:   r.CreatedAt,
	}
}
