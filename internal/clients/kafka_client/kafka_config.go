package kafka_client

import "os"

type KafkaConfig struct {
	Broker          string
	ReportTopic     string
	AlertTopic      string
	TransactionalID string
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func GetKafkaConfig() KafkaConfig {
	return KafkaConfig{
		Broker:          getEnv("KAFKA_BROKER", "localhost:29092"),
		ReportTopic:     getEnv("KAFKA_REPORT_TOPIC", KAFKA_TOPIC_ANALYSIS_REPORTS),
		AlertTopic:      getEnv("KAFKA_ALERT_TOPIC", KAFKA_TOPIC_HIGH_RISK_ALERTS),
		TransactionalID: getEnv("KAFKA_TRANSACTIONAL_ID", "fcpulse-producer-1"),
	}
}
