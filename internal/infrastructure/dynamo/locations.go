package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/staff-tracker-api/internal/domain"
)

// LocationRepo manages the single location record per staff member.
// PK: staff_id.
type LocationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewLocationRepo(client *dynamodb.Client, tableName string) *LocationRepo {
	return &LocationRepo{client: client, tableName: tableName}
}

func (r *LocationRepo) Get(ctx context.Context, staffID string) (*domain.StaffLocation, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("staff_id", staffID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("staff %s: %w", staffID, domain.ErrNotFound)
	}
	var rec domain.StaffLocation
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Upsert replaces the embedded location for staffID, creating the record if
// it does not exist, and returns the stored state. UpdateItem is atomic per
// item, so concurrent writers resolve to last-writer-wins with no field merge.
func (r *LocationRepo) Upsert(ctx context.Context, staffID string, loc domain.Location) (*domain.StaffLocation, error) {
	locAttr, err := attributevalue.Marshal(loc)
	if err != nil {
		return nil, fmt.Errorf("marshal location: %w", err)
	}
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("staff_id", staffID),
		UpdateExpression:          aws.String("SET #loc = :loc"),
		ExpressionAttributeNames:  map[string]string{"#loc": "location"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":loc": locAttr},
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert location: %w", err)
	}
	var rec domain.StaffLocation
	if err := attributevalue.UnmarshalMap(out.Attributes, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ScanIDs returns every known staff id. Order is whatever the scan yields;
// callers treat the result as a set.
func (r *LocationRepo) ScanIDs(ctx context.Context) ([]string, error) {
	ids := []string{}
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:            aws.String(r.tableName),
			ProjectionExpression: aws.String("staff_id"),
			ExclusiveStartKey:    startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan staff ids: %w", err)
		}
		for _, item := range out.Items {
			if v, ok := item["staff_id"].(*types.AttributeValueMemberS); ok {
				ids = append(ids, v.Value)
			}
		}
		if out.LastEvaluatedKey == nil {
			return ids, nil
		}
		startKey = out.LastEvaluatedKey
	}
}
