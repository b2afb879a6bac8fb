package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Session layer.
	ErrPilotTaken   = "E_PILOT_TAKEN"
	ErrMatchOver    = "E_MATCH_OVER"
	ErrBadRole      = "E_BAD_ROLE"
	ErrUnknownMatch = "E_UNKNOWN_MATCH"

	// Action layer.
	ErrBadRequest    = "E_BAD_REQUEST"
	ErrNoTokens      = "E_NO_TOKENS"
	ErrCooldown      = "E_COOLDOWN"
	ErrInvalidTarget = "E_INVALID_TARGET"
	ErrInternal      = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrPilotTaken:      {},
	ErrMatchOver:       {},
	ErrBadRole:         {},
	ErrUnknownMatch:    {},
	ErrBadRequest:      {},
	ErrNoTokens:        {},
	ErrCooldown:        {},
	ErrInvalidTarget:   {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
