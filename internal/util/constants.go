package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 文件上传相关常量
const (
	MimeImage       = "image/"
	MimeOctetStream = "application/octet-stream"

	MaxAvatarSize     = 2 << 20
	MaxBadgeImageSize = 1 << 20
)

var (
	AllowedImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}
)

// 缓存键
const (
	CacheKeyCatalog        = "skillkart:catalog:public"
	CacheKeyFollowerCount  = "skillkart:follow:followers:%s"
	CacheKeyFollowingCount = "skillkart:follow:following:%s"
)
