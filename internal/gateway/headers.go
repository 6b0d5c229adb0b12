package gateway

// AuthHeaders builds the identity headers for an authenticated call.
// The primary header is telegram-id; endpoints that have not migrated off
// the old convention also expect the same value in Authorization.
// An empty telegramID yields an empty map, so unauthenticated calls carry
// no identity at all.
func AuthHeaders(telegramID string, includeLegacy bool) map[string]string {
	if telegramID == "" {
		return map[string]string{}
	}
	h := map[string]string{"telegram-id": telegramID}
	if includeLegacy {
		h["Authorization"] = telegramID
	}
	return h
}

// LegacyHeaders builds headers for endpoints that only accept the old
// Authorization convention (the AI demo endpoints).
func LegacyHeaders(telegramID string) map[string]string {
	if telegramID == "" {
		return map[string]string{}
	}
	return map[string]string{"Authorization": telegramID}
}
