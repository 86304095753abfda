package notification

// BuildRecipientList assembles the notification recipient set from a
// primary owner plus secondary participants, then removes the acting
// user: an actor never receives a notification about their own action,
// even when they own the entity. Empty entries are ignored. Output is
// insertion-ordered and duplicate-free.
func BuildRecipientList(primaryOwner string, others []string, excludeActor string) []string {
	seen := make(map[string]struct{}, len(others)+1)
	out := make([]string, 0, len(others)+1)

	add := func(id string) {
		if id == "" {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	add(primaryOwner)
	for _, id := range others {
		add(id)
	}

	// Exclusion happens after assembly so the actor is removed even when
	// they were the primary owner or listed twice.
	if excludeActor != "" {
		filtered := out[:0]
		for _, id := range out {
			if id != excludeActor {
				filtered = append(filtered, id)
			}
		}
		out = filtered
	}

	return out
}

// AreSameRecipientSets reports order-independent set equality with the
// same dedup semantics as BuildRecipientList. Reordering the same ids is
// not a change.
func AreSameRecipientSets(a, b []string) bool {
	setA := toSet(a)
	setB := toSet(b)
	if len(setA) != len(setB) {
		return false
	}
	for id := range setA {
		if _, ok := setB[id]; !ok {
			return false
		}
	}
	return true
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}
