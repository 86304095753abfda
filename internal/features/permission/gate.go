package permission

// HasPermission is the authorization predicate, evaluated identically at
// the request boundary and by services. True when no permission is
// required, when the granted set contains the admin super-permission, or
// when any required key is granted (logical OR).
//
// Active-account checks happen before this predicate is consulted; it
// only answers the set-membership question.
func HasPermission(granted []string, required []string) bool {
	if len(required) == 0 {
		return true
	}
	if len(granted) == 0 {
		return false
	}

	grantedSet := make(map[string]struct{}, len(granted))
	for _, key := range granted {
		grantedSet[key] = struct{}{}
	}

	if _, ok := grantedSet[KeyAdmin]; ok {
		return true
	}

	for _, key := range required {
		if _, ok := grantedSet[key]; ok {
			return true
		}
	}
	return false
}
