package util

// CertificateDateFormat is how issue dates are printed on certificates.
const CertificateDateFormat = "02 January 2006"

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimeHTML        = "text/html; charset=utf-8"
	MimeEventStream = "text/event-stream"
)

// gin context keys
const (
	ContextClaimsKey  = "user"
	ContextSessionKey = "session"
)
