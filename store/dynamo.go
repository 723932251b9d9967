package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	attrCollection = "collectionPath"
	attrDocumentID = "documentId"
)

// Dynamo is the DynamoDB-backed Store. Documents live in one table with the
// collection path as partition key and the document id as sort key, so
// nested collections (gameSessions/{id}/swipes) need no extra tables.
// Subscriptions are served by polling the backing query and diffing
// snapshots, since DynamoDB has no push channel of its own.
type Dynamo struct {
	Client       *dynamodb.Client
	Table        string
	PollInterval time.Duration
}

// InitializeDynamoDBClient initializes the DynamoDB client
func InitializeDynamoDBClient() *dynamodb.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}
	return dynamodb.NewFromConfig(cfg)
}

func NewDynamo(client *dynamodb.Client, table string, pollInterval time.Duration) *Dynamo {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Dynamo{Client: client, Table: table, PollInterval: pollInterval}
}

func (d *Dynamo) key(collection, id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrCollection: &types.AttributeValueMemberS{Value: collection},
		attrDocumentID: &types.AttributeValueMemberS{Value: id},
	}
}

func (d *Dynamo) Get(ctx context.Context, collection, id string) (Fields, error) {
	output, err := d.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &d.Table,
		Key:       d.key(collection, id),
	})
	if err != nil {
		return nil, &StoreError{Op: "get", Collection: collection, Err: err}
	}
	if output.Item == nil {
		return nil, ErrNotFound
	}
	return itemToFields(output.Item)
}

func (d *Dynamo) Set(ctx context.Context, collection, id string, fields Fields) error {
	item, err := attributevalue.MarshalMap(map[string]interface{}(fields))
	if err != nil {
		return &StoreError{Op: "set", Collection: collection, Err: err}
	}
	item[attrCollection] = &types.AttributeValueMemberS{Value: collection}
	item[attrDocumentID] = &types.AttributeValueMemberS{Value: id}

	_, err = d.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &d.Table,
		Item:      item,
	})
	if err != nil {
		return &StoreError{Op: "set", Collection: collection, Err: err}
	}
	return nil
}

func (d *Dynamo) Update(ctx context.Context, collection, id string, fields Fields) error {
	update, names, values, err := buildSetExpression(fields)
	if err != nil {
		return &StoreError{Op: "update", Collection: collection, Err: err}
	}
	names["#pk"] = attrCollection

	_, err = d.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &d.Table,
		Key:                       d.key(collection, id),
		UpdateExpression:          aws.String(update),
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return ErrNotFound
		}
		return &StoreError{Op: "update", Collection: collection, Err: err}
	}
	return nil
}

func (d *Dynamo) Delete(ctx context.Context, collection, id string) error {
	_, err := d.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &d.Table,
		Key:       d.key(collection, id),
	})
	if err != nil {
		return &StoreError{Op: "delete", Collection: collection, Err: err}
	}
	return nil
}

func (d *Dynamo) Query(ctx context.Context, collection string, where []Where) ([]Document, error) {
	input, err := d.buildQuery(collection, where)
	if err != nil {
		return nil, &StoreError{Op: "query", Collection: collection, Err: err}
	}

	var docs []Document
	paginator := dynamodb.NewQueryPaginator(d.Client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, &StoreError{Op: "query", Collection: collection, Err: err}
		}
		for _, item := range page.Items {
			doc, err := itemToDocument(item)
			if err != nil {
				return nil, &StoreError{Op: "query", Collection: collection, Err: err}
			}
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (d *Dynamo) ConditionalWrite(ctx context.Context, collection, id string, cond Condition, fields Fields) error {
	update, names, values, err := buildSetExpression(fields)
	if err != nil {
		return &StoreError{Op: "conditionalWrite", Collection: collection, Err: err}
	}
	names["#pk"] = attrCollection
	names["#cond"] = cond.Field

	var condition string
	switch cond.Op {
	case CondAbsent:
		condition = "attribute_exists(#pk) AND attribute_not_exists(#cond)"
	case CondEquals:
		condValue, err := attributevalue.Marshal(cond.Value)
		if err != nil {
			return &StoreError{Op: "conditionalWrite", Collection: collection, Err: err}
		}
		values[":cond"] = condValue
		condition = "attribute_exists(#pk) AND #cond = :cond"
	}

	_, err = d.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &d.Table,
		Key:                       d.key(collection, id),
		UpdateExpression:          aws.String(update),
		ConditionExpression:       aws.String(condition),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			// Distinguish a missing document from a failed guard.
			if _, getErr := d.Get(ctx, collection, id); errors.Is(getErr, ErrNotFound) {
				return ErrNotFound
			}
			return ErrConditionFailed
		}
		return &StoreError{Op: "conditionalWrite", Collection: collection, Err: err}
	}
	return nil
}

func (d *Dynamo) Subscribe(collection string, where []Where) *Subscription {
	stop := make(chan struct{})
	sub := newSubscription(func() { close(stop) })

	go func() {
		ticker := time.NewTicker(d.PollInterval)
		defer ticker.Stop()

		var last []Document
		primed := false
		for {
			docs, err := d.Query(context.Background(), collection, where)
			if err != nil {
				log.Printf("store: poll for %q failed: %v", collection, err)
			} else {
				changes := diff(last, docs)
				if !primed || len(changes) > 0 {
					last = docs
					primed = true
					sub.notify(Snapshot{Docs: docs, Changes: changes})
				}
			}
			select {
			case <-ticker.C:
			case <-stop:
				return
			}
		}
	}()
	return sub
}

func (d *Dynamo) buildQuery(collection string, where []Where) (*dynamodb.QueryInput, error) {
	names := map[string]string{"#pk": attrCollection}
	values := map[string]types.AttributeValue{
		":pk": &types.AttributeValueMemberS{Value: collection},
	}

	filter := ""
	for i, p := range where {
		name := fmt.Sprintf("#f%d", i)
		value := fmt.Sprintf(":f%d", i)
		names[name] = p.Field
		av, err := attributevalue.Marshal(p.Value)
		if err != nil {
			return nil, err
		}
		values[value] = av
		if filter != "" {
			filter += " AND "
		}
		filter += name + " = " + value
	}

	input := &dynamodb.QueryInput{
		TableName:                 &d.Table,
		KeyConditionExpression:    aws.String("#pk = :pk"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}
	if filter != "" {
		input.FilterExpression = aws.String(filter)
	}
	return input, nil
}

func buildSetExpression(fields Fields) (string, map[string]string, map[string]types.AttributeValue, error) {
	if len(fields) == 0 {
		return "", nil, nil, errors.New("update requires at least one field")
	}
	names := make(map[string]string, len(fields))
	values := make(map[string]types.AttributeValue, len(fields))
	expr := "SET "
	i := 0
	for field, value := range fields {
		name := fmt.Sprintf("#u%d", i)
		placeholder := fmt.Sprintf(":u%d", i)
		names[name] = field
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return "", nil, nil, err
		}
		values[placeholder] = av
		if i > 0 {
			expr += ", "
		}
		expr += name + " = " + placeholder
		i++
	}
	return expr, names, values, nil
}

func itemToDocument(item map[string]types.AttributeValue) (Document, error) {
	id := ""
	if attr, ok := item[attrDocumentID].(*types.AttributeValueMemberS); ok {
		id = attr.Value
	}
	fields, err := itemToFields(item)
	if err != nil {
		return Document{}, err
	}
	return Document{ID: id, Fields: fields}, nil
}

func itemToFields(item map[string]types.AttributeValue) (Fields, error) {
	var fields map[string]interface{}
	if err := attributevalue.UnmarshalMap(item, &fields); err != nil {
		return nil, err
	}
	delete(fields, attrCollection)
	delete(fields, attrDocumentID)
	return fields, nil
}
