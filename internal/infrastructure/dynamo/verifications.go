package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-otp-api/internal/domain"
)

// VerificationRepo provides typed DynamoDB operations for the otp_verifications table.
// PK: verification_id. The identity-created_at-index GSI serves the
// newest-unused lookup per (phone, email) identity.
type VerificationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewVerificationRepo(client *dynamodb.Client, tableName string) *VerificationRepo {
	return &VerificationRepo{client: client, tableName: tableName}
}

func (r *VerificationRepo) Put(ctx context.Context, v *domain.OTPVerification) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal verification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// GetLatest returns the most recently created record for the given
// phone/email identity, used or not, or domain.ErrNotFound when none exists.
// Older records for the same identity are never returned: issuing a new code
// permanently supersedes them.
func (r *VerificationRepo) GetLatest(ctx context.Context, phoneNumber, email string) (*domain.OTPVerification, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("identity-created_at-index"),
		KeyConditionExpression: aws.String("#id = :id"),
		ExpressionAttributeNames: map[string]string{
			"#id": "identity",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberS{Value: domain.IdentityKey(phoneNumber, email)},
		},
		ScanIndexForward: aws.Bool(false), // newest first
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("no verification for identity: %w", domain.ErrNotFound)
	}
	var v domain.OTPVerification
	if err := attributevalue.UnmarshalMap(out.Items[0], &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// IncrementAttempts adds exactly 1 to the record's attempts counter.
func (r *VerificationRepo) IncrementAttempts(ctx context.Context, verificationID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              strKey("verification_id", verificationID),
		UpdateExpression: aws.String("ADD attempts :one"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
	})
	return err
}

// MarkUsed flips is_used to true, conditioned on it still being false. The
// condition makes consumption a compare-and-swap: of two concurrent
// verifications of the same code, exactly one wins. The loser gets
// domain.ErrNotFound.
func (r *VerificationRepo) MarkUsed(ctx context.Context, verificationID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("verification_id", verificationID),
		UpdateExpression:    aws.String("SET is_used = :t"),
		ConditionExpression: aws.String("is_used = :f"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberBOOL{Value: true},
			":f": &types.AttributeValueMemberBOOL{Value: false},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("verification already consumed: %w", domain.ErrNotFound)
		}
		return err
	}
	return nil
}
