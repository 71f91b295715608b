package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/staff-tracker-api/internal/domain"
)

// OtpRepo manages one-time passcodes. PK: email (normalized lower-case).
// One row per email; a new code overwrites the previous one.
type OtpRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewOtpRepo(client *dynamodb.Client, tableName string) *OtpRepo {
	return &OtpRepo{client: client, tableName: tableName}
}

// Put upserts the OTP record, replacing any prior code for the email.
func (r *OtpRepo) Put(ctx context.Context, rec *domain.OtpRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal otp: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *OtpRepo) Get(ctx context.Context, email string) (*domain.OtpRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("email", email),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("otp not found: %w", domain.ErrNotFound)
	}
	var rec domain.OtpRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ConsumeIfMatch deletes the record for email iff the stored code equals code
// and the record has not expired at now. The conditional delete is the
// serialization point: of two concurrent calls with the same valid code,
// exactly one delete succeeds and the other fails the condition.
//
// Returns nil on consume; otherwise ErrNotFound, ErrCodeMismatch or
// ErrCodeExpired (wrapped), classified from the rejected item.
func (r *OtpRepo) ConsumeIfMatch(ctx context.Context, email, code string, now time.Time) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      strKey("email", email),
		ConditionExpression:      aws.String("#code = :code AND expires_at > :now"),
		ExpressionAttributeNames: map[string]string{"#code": "code"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":code": &types.AttributeValueMemberS{Value: code},
			":now":  numVal(strconv.FormatInt(now.Unix(), 10)),
		},
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err == nil {
		return nil
	}

	var ccf *types.ConditionalCheckFailedException
	if !errors.As(err, &ccf) {
		return err
	}
	if ccf.Item == nil {
		return fmt.Errorf("otp not found for %s: %w", email, domain.ErrNotFound)
	}
	var rec domain.OtpRecord
	if uerr := attributevalue.UnmarshalMap(ccf.Item, &rec); uerr != nil {
		return fmt.Errorf("otp rejected: %w", domain.ErrCodeMismatch)
	}
	if rec.Code != code {
		return fmt.Errorf("otp mismatch for %s: %w", email, domain.ErrCodeMismatch)
	}
	return fmt.Errorf("otp expired for %s: %w", email, domain.ErrCodeExpired)
}

// DeleteExpired removes all records whose expiry has passed and returns the
// number deleted. Each delete re-checks expiry so a code reissued between the
// scan and the delete survives.
func (r *OtpRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	nowVal := numVal(strconv.FormatInt(now.Unix(), 10))
	deleted := 0

	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(r.tableName),
			ProjectionExpression:      aws.String("email"),
			FilterExpression:          aws.String("expires_at <= :now"),
			ExpressionAttributeValues: map[string]types.AttributeValue{":now": nowVal},
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return deleted, fmt.Errorf("scan expired otps: %w", err)
		}

		for _, item := range out.Items {
			emailAttr, ok := item["email"].(*types.AttributeValueMemberS)
			if !ok {
				continue
			}
			_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
				TableName:                 aws.String(r.tableName),
				Key:                       strKey("email", emailAttr.Value),
				ConditionExpression:       aws.String("expires_at <= :now"),
				ExpressionAttributeValues: map[string]types.AttributeValue{":now": nowVal},
			})
			if err != nil {
				var ccf *types.ConditionalCheckFailedException
				if errors.As(err, &ccf) {
					continue // reissued since the scan
				}
				return deleted, fmt.Errorf("delete expired otp: %w", err)
			}
			deleted++
		}

		if out.LastEvaluatedKey == nil {
			return deleted, nil
		}
		startKey = out.LastEvaluatedKey
	}
}
