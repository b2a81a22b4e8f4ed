package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spacesedan/fcpulse/internal/clients"
	"github.com/spacesedan/fcpulse/internal/models"
	"github.com/spacesedan/fcpulse/internal/utils"
)

const (
	FEEDBACK_TABLE_NAME = "FeedbackItems"
	MAX_BATCH_WRITE     = 25
	MAX_WRITE_RETRIES   = 3
	RESULT_TTL          = 30 * 24 * time.Hour
)

// DynamoDBAPI is the subset of the DynamoDB client used here.
type DynamoDBAPI interface {
	dynamodb.ScanAPIClient
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// ErrNoResultsTable is returned when results are stored without a table name.
var ErrNoResultsTable = errors.New("[DynamoDB] no results table configured")

var (
	dbClient     DynamoDBAPI
	retryBackoff = 500 * time.Millisecond
)

func InitDynamoDB() {
	dbClient = clients.GetDynamoDBClient()
}

func client() DynamoDBAPI {
	if dbClient == nil {
		dbClient = clients.GetDynamoDBClient()
	}
	return dbClient
}

// resultRecord is the stored shape of one analyzed item.
type resultRecord struct {
	RunID              string                   `dynamodbav:"run_id"`
	ItemID             string                   `dynamodbav:"content_id"`
	Subject            models.Subject           `dynamodbav:"subject"`
	SecondarySubjects  []models.Subject         `dynamodbav:"secondary_subjects,omitempty"`
	ClassConfidence    float64                  `dynamodbav:"classification_confidence"`
	MatchedPhrases     []string                 `dynamodbav:"matched_phrases,omitempty"`
	RawSentiment       models.RawSentiment      `dynamodbav:"sentiment_label"`
	PolarityScore      float64                  `dynamodbav:"sentiment_score"`
	RawConfidence      float64                  `dynamodbav:"confidence"`
	BusinessSentiment  models.BusinessSentiment `dynamodbav:"business_sentiment"`
	BusinessConfidence float64                  `dynamodbav:"business_confidence"`
	BusinessImpact     models.BusinessImpact    `dynamodbav:"business_impact"`
	RiskScore          int                      `dynamodbav:"risk_score"`
	PositiveScore      int                      `dynamodbav:"positive_score"`
	Reasoning          string                   `dynamodbav:"reasoning"`
	ExecutiveSummary   string                   `dynamodbav:"executive_summary,omitempty"`
	RecommendedAction  string                   `dynamodbav:"recommended_action,omitempty"`
	ProviderFallback   bool                     `dynamodbav:"provider_fallback"`
	CreatedAt          int64                    `dynamodbav:"created_at"`
	TTL                int64                    `dynamodbav:"ttl"`
}

// LoadFeedbackItems scans every post and comment from table, or from
// FEEDBACK_TABLE_NAME when table is empty.
func LoadFeedbackItems(ctx context.Context, table string) ([]models.FeedbackItem, error) {
	if table == "" {
		table = FEEDBACK_TABLE_NAME
	}
	paginator := dynamodb.NewScanPaginator(client(), &dynamodb.ScanInput{
		TableName: aws.String(table),
	})

	var items []models.FeedbackItem
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("[DynamoDB] Scan for feedback items failed: %w", err)
		}
		var page []models.FeedbackItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			slog.Error("[DynamoDB] Unable to unmarshal feedback page", slog.String("error", err.Error()))
			return nil, fmt.Errorf("[DynamoDB] unmarshal feedback page: %w", err)
		}
		items = append(items, page...)
	}

	slog.Info("[DynamoDB] Successfully loaded feedback items", slog.Int("count", len(items)))
	return items, nil
}

// ResultToDynamoDBItem builds the stored item for one analyzed feedback item.
func ResultToDynamoDBItem(runID string, class models.ClassificationResult, result models.SentimentResult, now time.Time) (map[string]types.AttributeValue, error) {
	record := resultRecord{
		RunID:              runID,
		ItemID:             result.ItemID,
		Subject:            class.Subject,
		SecondarySubjects:  class.SecondarySubjects,
		ClassConfidence:    class.Confidence,
		MatchedPhrases:     class.MatchedPhrases,
		RawSentiment:       result.RawSentiment,
		PolarityScore:      result.PolarityScore,
		RawConfidence:      result.RawConfidence,
		BusinessSentiment:  result.BusinessSentiment,
		BusinessConfidence: result.BusinessConfidence,
		BusinessImpact:     result.BusinessImpact,
		RiskScore:          result.RiskScore,
		PositiveScore:      result.PositiveScore,
		Reasoning:          result.Reasoning,
		ExecutiveSummary:   result.ExecutiveSummary,
		RecommendedAction:  result.RecommendedAction,
		ProviderFallback:   result.ProviderFallback,
		CreatedAt:          now.Unix(),
		TTL:                now.Add(RESULT_TTL).Unix(),
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] marshal result %s: %w", result.ItemID, err)
	}
	return item, nil
}

// StoreSentimentResults writes one item per analyzed feedback item.
// classifications and results are index-aligned. Persistence is opt-in, so
// table must be named explicitly.
func StoreSentimentResults(ctx context.Context, table, runID string, classifications []models.ClassificationResult, results []models.SentimentResult) error {
	if table == "" {
		return ErrNoResultsTable
	}
	if len(classifications) != len(results) {
		return fmt.Errorf("[DynamoDB] %d classifications for %d results", len(classifications), len(results))
	}

	now := time.Now()
	requests := make([]types.WriteRequest, 0, len(results))
	for i, result := range results {
		item, err := ResultToDynamoDBItem(runID, classifications[i], result, now)
		if err != nil {
			return err
		}
		requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
	}

	for _, batch := range utils.Chunk(requests, MAX_BATCH_WRITE) {
		if err := batchWrite(ctx, table, batch); err != nil {
			return err
		}
	}

	slog.Info("[DynamoDB] Successfully stored analysis results",
		slog.String("run_id", runID),
		slog.Int("count", len(results)))
	return nil
}

func batchWrite(ctx context.Context, table string, requests []types.WriteRequest) error {
	out, err := client().BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{table: requests},
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to batch write results: %w", err)
	}

	backoff := retryBackoff
	for retry := 0; len(out.UnprocessedItems) > 0 && retry < MAX_WRITE_RETRIES; retry++ {
		slog.Warn("[DynamoDB] Retrying unprocessed items...",
			slog.Int("attempt", retry+1),
			slog.Int("remaining", len(out.UnprocessedItems[table])))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2

		out, err = client().BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: out.UnprocessedItems,
		})
		if err != nil {
			return fmt.Errorf("[DynamoDB] Retry error: %w", err)
		}
	}

	if remaining := len(out.UnprocessedItems[table]); remaining > 0 {
		slog.Error("[DynamoDB] Some items were not written even after retries",
			slog.Int("remaining", remaining))
		return fmt.Errorf("[DynamoDB] %d items left unprocessed", remaining)
	}
	return nil
}
