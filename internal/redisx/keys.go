package redisx

import "time"

const (
	// Keranjang per sesi browser: cart:{sid} -> JSON array item
	KeyCart = "cart:%s"

	// Sesi admin: hash admin_session:{token} -> {isAdmin, adminUser}
	KeyAdminSession = "admin_session:%s"

	// Guard double-submit checkout: idem:checkout:{token} -> "1"
	KeyIdemCheckout = "idem:checkout:%s"

	// Feed aktivitas pesanan untuk dashboard admin (LPUSH + LTRIM)
	KeyOrderFeed = "order_feed"

	// Dedup event di notifier: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

const (
	FieldIsAdmin   = "isAdmin"
	FieldAdminUser = "adminUser"

	FeedMaxLen = 50
)

var (
	TTLCart         = 30 * 24 * time.Hour
	TTLAdminSession = 12 * time.Hour
	TTLIdempotency  = 24 * time.Hour
	TTLDedup        = 48 * time.Hour
)
