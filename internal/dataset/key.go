package dataset

import "strings"

// DeriveJoinKey：取复合标识按 "/" 切分后的第二段，如 "geoId/12031" -> "12031"
func DeriveJoinKey(composite string) (string, bool) {
	parts := strings.Split(strings.TrimSpace(composite), "/")
	if len(parts) < 2 {
		return "", false
	}
	k := strings.TrimSpace(parts[1])
	if k == "" {
		return "", false
	}
	return k, true
}
