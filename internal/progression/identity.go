package progression

import (
	"strings"

	"skillkart_backend/internal/model"
)

const FallbackDisplayName = "User"

// DisplayName 依次使用昵称、注册姓名、邮箱前缀，都为空时返回 "User"
func DisplayName(u model.User) string {
	if u.DisplayName != nil {
		if name := strings.TrimSpace(*u.DisplayName); name != "" {
			return name
		}
	}
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	if local, _, ok := strings.Cut(strings.TrimSpace(u.Email), "@"); ok && local != "" {
		return local
	}
	return FallbackDisplayName
}
