package permission

// legacyAliases maps retired permission keys to their current
// replacements. The table is applied only when a role is written, never
// when a check runs, so stored roles migrate forward on their next save.
//
// The list is exactly the mappings observed in production data. Do not
// infer new aliases; add entries only when a key is actually renamed.
var legacyAliases = map[string][]string{
	"tasks.assign": {KeyTasksEdit, KeyTasksReassign},
	"export":       {KeyReportsExport},
	"po.approve":   {KeyPORequestsApprove},
	"manage_users": {KeyUsersView, KeyUsersManage},
}

// NormalizeAliases rewrites legacy keys to their current equivalents and
// then filters the result against the catalog.
func NormalizeAliases(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if replacements, ok := legacyAliases[key]; ok {
			out = append(out, replacements...)
			continue
		}
		out = append(out, key)
	}
	return Filter(out)
}
