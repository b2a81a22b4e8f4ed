package kafka_client

import "time"

const (
	KAFKA_TOPIC_ANALYSIS_REPORTS = "analysis-reports" // one full report document per run
	KAFKA_TOPIC_HIGH_RISK_ALERTS = "high-risk-alerts" // one message per HIGH_RISK item
)

const (
	MAX_RETRIES   = 3
	FLUSH_TIMEOUT = 5 * time.Second
)
