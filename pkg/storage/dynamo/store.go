// Package dynamo implements storage.Store on DynamoDB. Inboxes are keyed by
// id; emails by (inbox_id, email_id) with email_id as the range key, so a
// descending query yields reverse arrival order.
package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/easytempinbox/easytempinbox/pkg/config"
	"github.com/easytempinbox/easytempinbox/pkg/model"
	"github.com/easytempinbox/easytempinbox/pkg/storage"
)

// Store is a DynamoDB backed storage.Store.
type Store struct {
	client       *dynamodb.Client
	inboxesTable string
	emailsTable  string
}

var _ storage.Store = &Store{}

// New creates a Store from configuration. A non-empty endpoint switches to
// local-testing mode with static credentials.
func New(ctx context.Context, cfg config.Storage) (*Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("test", "test", "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &Store{
		client:       client,
		inboxesTable: cfg.InboxesTable,
		emailsTable:  cfg.EmailsTable,
	}, nil
}

// PutInbox writes an inbox record.
func (s *Store) PutInbox(ctx context.Context, inbox *model.Inbox) error {
	item, err := attributevalue.MarshalMap(toInboxRecord(inbox))
	if err != nil {
		return fmt.Errorf("marshal inbox: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.inboxesTable),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put inbox %v: %w", inbox.ID, err)
	}
	return nil
}

// GetInbox reads an inbox record; storage.ErrNotExist when absent.
func (s *Store) GetInbox(ctx context.Context, id string) (*model.Inbox, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.inboxesTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get inbox %v: %w", id, err)
	}
	if len(out.Item) == 0 {
		return nil, storage.ErrNotExist
	}
	var rec inboxRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal inbox %v: %w", id, err)
	}
	return rec.toModel(), nil
}

// PutEmail writes an email record as a single item.
func (s *Store) PutEmail(ctx context.Context, email *model.Email) error {
	item, err := attributevalue.MarshalMap(toEmailRecord(email))
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.emailsTable),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put email %v/%v: %w", email.InboxID, email.EmailID, err)
	}
	return nil
}

// GetEmail reads a single email record; storage.ErrNotExist when absent.
func (s *Store) GetEmail(ctx context.Context, inboxID, emailID string) (*model.Email, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.emailsTable),
		Key:       emailKey(inboxID, emailID),
	})
	if err != nil {
		return nil, fmt.Errorf("get email %v/%v: %w", inboxID, emailID, err)
	}
	if len(out.Item) == 0 {
		return nil, storage.ErrNotExist
	}
	var rec emailRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal email %v/%v: %w", inboxID, emailID, err)
	}
	return rec.toModel(), nil
}

// ListEmails queries an inbox partition newest first.
func (s *Store) ListEmails(ctx context.Context, inboxID string, limit int32, exclusiveStartKey string) ([]*model.Email, string, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.emailsTable),
		KeyConditionExpression: aws.String("inbox_id = :inbox_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":inbox_id": &types.AttributeValueMemberS{Value: inboxID},
		},
		Limit:            aws.Int32(limit),
		ScanIndexForward: aws.Bool(false),
	}
	if exclusiveStartKey != "" {
		input.ExclusiveStartKey = emailKey(inboxID, exclusiveStartKey)
	}
	out, err := s.client.Query(ctx, input)
	if err != nil {
		return nil, "", fmt.Errorf("list emails %v: %w", inboxID, err)
	}
	emails := make([]*model.Email, 0, len(out.Items))
	for _, item := range out.Items {
		var rec emailRecord
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			return nil, "", fmt.Errorf("unmarshal email item: %w", err)
		}
		emails = append(emails, rec.toModel())
	}
	nextKey := ""
	if last, ok := out.LastEvaluatedKey["email_id"]; ok {
		if sv, ok := last.(*types.AttributeValueMemberS); ok {
			nextKey = sv.Value
		}
	}
	return emails, nextKey, nil
}

// CountEmails counts an inbox partition, following pagination if the count
// spans multiple pages.
func (s *Store) CountEmails(ctx context.Context, inboxID string) (int, error) {
	total := 0
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.emailsTable),
			KeyConditionExpression: aws.String("inbox_id = :inbox_id"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":inbox_id": &types.AttributeValueMemberS{Value: inboxID},
			},
			Select:            types.SelectCount,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return 0, fmt.Errorf("count emails %v: %w", inboxID, err)
		}
		total += int(out.Count)
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return total, nil
}

func emailKey(inboxID, emailID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"inbox_id": &types.AttributeValueMemberS{Value: inboxID},
		"email_id": &types.AttributeValueMemberS{Value: emailID},
	}
}
