package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TransactPut adds or replaces one document inside an atomic batch.
type TransactPut struct {
	Table string
	Item  interface{}
}

// TransactDelete removes one document inside an atomic batch. Deleting an
// absent document is not an error, so retries stay idempotent.
type TransactDelete struct {
	Table string
	Key   map[string]types.AttributeValue
}

// TransactWriteOp is one write of an all-or-nothing batch. Exactly one of
// Put or Delete is set.
type TransactWriteOp struct {
	Put    *TransactPut
	Delete *TransactDelete
}

// DataStore is the narrow document-store contract the services depend on.
// DynamoService implements it against DynamoDB; tests implement it in
// memory. GetItem returns (nil, nil) when the document is absent.
type DataStore interface {
	GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error)
	PutItem(ctx context.Context, tableName string, item interface{}) error
	DeleteItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) error
	QueryByPartition(ctx context.Context, tableName, keyName, keyValue string, limit int32) ([]map[string]types.AttributeValue, error)
	ScanAll(ctx context.Context, tableName string, result interface{}) error
	TransactWrite(ctx context.Context, ops []TransactWriteOp) error
	BatchDeleteItems(ctx context.Context, tableName string, keys []map[string]types.AttributeValue) error
}

type DynamoService struct {
	Client *dynamodb.Client
}

var _ DataStore = (*DynamoService)(nil)

// InitializeDynamoDBClient initializes the DynamoDB client
func InitializeDynamoDBClient() *dynamodb.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}
	return dynamodb.NewFromConfig(cfg)
}

// GetItem retrieves an item from DynamoDB. A missing item is (nil, nil).
func (ds *DynamoService) GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	output, err := ds.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &tableName,
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item from table '%s': %w", tableName, err)
	}
	return output.Item, nil
}

// PutItem marshals and upserts a document.
func (ds *DynamoService) PutItem(ctx context.Context, tableName string, item interface{}) error {
	marshaledItem, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	_, err = ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &tableName,
		Item:      marshaledItem,
	})
	if err != nil {
		log.Printf("❌ Failed to insert item into '%s': %v", tableName, err)
		return fmt.Errorf("failed to put item in table '%s': %w", tableName, err)
	}
	return nil
}

// DeleteItem removes an item from DynamoDB; deleting an absent item succeeds.
func (ds *DynamoService) DeleteItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) error {
	_, err := ds.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &tableName,
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete item from table '%s': %w", tableName, err)
	}
	return nil
}

// QueryByPartition fetches the items of one partition in ascending sort-key
// order. limit <= 0 means no limit.
func (ds *DynamoService) QueryByPartition(ctx context.Context, tableName, keyName, keyValue string, limit int32) ([]map[string]types.AttributeValue, error) {
	keyCondition := "#pk = :pk"
	input := &dynamodb.QueryInput{
		TableName:              &tableName,
		KeyConditionExpression: &keyCondition,
		ExpressionAttributeNames: map[string]string{
			"#pk": keyName,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: keyValue},
		},
	}
	if limit > 0 {
		input.Limit = &limit
	}

	var items []map[string]types.AttributeValue
	for {
		output, err := ds.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query table '%s': %w", tableName, err)
		}
		items = append(items, output.Items...)
		if limit > 0 && int32(len(items)) >= limit {
			return items[:limit], nil
		}
		if output.LastEvaluatedKey == nil {
			return items, nil
		}
		input.ExclusiveStartKey = output.LastEvaluatedKey
	}
}

// ScanAll reads a full table into result (a pointer to a slice of structs).
func (ds *DynamoService) ScanAll(ctx context.Context, tableName string, result interface{}) error {
	input := &dynamodb.ScanInput{TableName: &tableName}

	var items []map[string]types.AttributeValue
	for {
		output, err := ds.Client.Scan(ctx, input)
		if err != nil {
			return fmt.Errorf("failed to scan table '%s': %w", tableName, err)
		}
		items = append(items, output.Items...)
		if output.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = output.LastEvaluatedKey
	}

	if err := attributevalue.UnmarshalListOfMaps(items, result); err != nil {
		return fmt.Errorf("failed to unmarshal scan result: %w", err)
	}
	return nil
}

// TransactWrite applies every op or none of them. Symmetric ledger writes
// (match creation, unmatch) must go through here so partial visibility is
// impossible.
func (ds *DynamoService) TransactWrite(ctx context.Context, ops []TransactWriteOp) error {
	if len(ops) == 0 {
		return nil
	}

	transactItems := make([]types.TransactWriteItem, 0, len(ops))
	for _, op := range ops {
		switch {
		case op.Put != nil:
			item, err := attributevalue.MarshalMap(op.Put.Item)
			if err != nil {
				return fmt.Errorf("failed to marshal transact item: %w", err)
			}
			transactItems = append(transactItems, types.TransactWriteItem{
				Put: &types.Put{TableName: aws.String(op.Put.Table), Item: item},
			})
		case op.Delete != nil:
			transactItems = append(transactItems, types.TransactWriteItem{
				Delete: &types.Delete{TableName: aws.String(op.Delete.Table), Key: op.Delete.Key},
			})
		default:
			return errors.New("transact write op has neither put nor delete")
		}
	}

	_, err := ds.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: transactItems,
	})
	if err != nil {
		log.Printf("❌ Transactional write of %d ops failed: %v", len(ops), err)
		return fmt.Errorf("failed to commit transactional write: %w", err)
	}
	return nil
}

// BatchDeleteItems deletes the given keys in chunks of 25 (the
// BatchWriteItem ceiling).
func (ds *DynamoService) BatchDeleteItems(ctx context.Context, tableName string, keys []map[string]types.AttributeValue) error {
	const maxBatchSize = 25

	for i := 0; i < len(keys); i += maxBatchSize {
		end := i + maxBatchSize
		if end > len(keys) {
			end = len(keys)
		}

		writeRequests := make([]types.WriteRequest, 0, end-i)
		for _, key := range keys[i:end] {
			writeRequests = append(writeRequests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{Key: key},
			})
		}

		_, err := ds.Client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				tableName: writeRequests,
			},
		})
		if err != nil {
			return fmt.Errorf("failed to batch delete from table '%s': %w", tableName, err)
		}
	}
	return nil
}

// sortByAttribute orders raw items by a string attribute, ascending. Used
// where the store cannot guarantee order (in-memory scans, merged pages).
func sortByAttribute(items []map[string]types.AttributeValue, name string) {
	sort.SliceStable(items, func(i, j int) bool {
		a, _ := items[i][name].(*types.AttributeValueMemberS)
		b, _ := items[j][name].(*types.AttributeValueMemberS)
		if a == nil || b == nil {
			return a != nil
		}
		return a.Value < b.Value
	})
}
