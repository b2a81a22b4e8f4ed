package clients

import "time"

const (
	MAX_RETRIES        = 3
	RETRY_BACKOFF      = 250 * time.Millisecond
	REPORT_KEY_PREFIX  = "fcpulse:report:"
	REPORT_LATEST_KEY  = REPORT_KEY_PREFIX + "latest"
	DEFAULT_REPORT_TTL = 7 * 24 * time.Hour
)
