package dynamodb_test

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo understands exactly the requests ContactRepository sends.
type fakeDynamo struct {
	mu       sync.Mutex
	items    map[int]map[string]types.AttributeValue
	pageSize int
	scans    int

	// putErr is returned once by the failPutOn-th PutItem call.
	puts      int
	failPutOn int
	putErr    error
}

func newFakeDynamo(pageSize int) *fakeDynamo {
	return &fakeDynamo{items: map[int]map[string]types.AttributeValue{}, pageSize: pageSize}
}

func numberOf(av types.AttributeValue) int {
	n, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		return -1
	}
	v, _ := strconv.Atoi(n.Value)
	return v
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	if item == nil {
		return nil
	}
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

func conditionFailed() error {
	return &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &dynamodb.GetItemOutput{Item: copyItem(f.items[numberOf(in.Key["id"])])}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.putErr != nil && f.puts == f.failPutOn {
		return nil, f.putErr
	}
	id := numberOf(in.Item["id"])
	if _, exists := f.items[id]; exists && aws.ToString(in.ConditionExpression) == "attribute_not_exists(id)" {
		return nil, conditionFailed()
	}
	f.items[id] = copyItem(in.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := numberOf(in.Key["id"])
	item, exists := f.items[id]
	expr := aws.ToString(in.UpdateExpression)

	if strings.HasPrefix(expr, "ADD seq") {
		if !exists {
			item = map[string]types.AttributeValue{"id": in.Key["id"]}
		}
		seq := 0
		if v, ok := item["seq"]; ok {
			seq = numberOf(v)
		}
		seq += numberOf(in.ExpressionAttributeValues[":one"])
		item["seq"] = &types.AttributeValueMemberN{Value: strconv.Itoa(seq)}
		f.items[id] = item
		return &dynamodb.UpdateItemOutput{Attributes: map[string]types.AttributeValue{"seq": item["seq"]}}, nil
	}

	if !exists && aws.ToString(in.ConditionExpression) == "attribute_exists(id)" {
		return nil, conditionFailed()
	}
	if !exists {
		item = map[string]types.AttributeValue{"id": in.Key["id"]}
	}
	for _, assignment := range strings.Split(strings.TrimPrefix(expr, "SET "), ",") {
		name, placeholder, _ := strings.Cut(strings.TrimSpace(assignment), " = ")
		item[name] = in.ExpressionAttributeValues[placeholder]
	}
	f.items[id] = item
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := numberOf(in.Key["id"])
	old := f.items[id]
	delete(f.items, id)

	out := &dynamodb.DeleteItemOutput{}
	if in.ReturnValues == types.ReturnValueAllOld {
		out.Attributes = old
	}
	return out, nil
}

// Scan pages through items in id order and applies the "id > :counter"
// filter after paging, as DynamoDB does.
func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scans++

	ids := make([]int, 0, len(f.items))
	for id := range f.items {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	start := 0
	if in.ExclusiveStartKey != nil {
		after := numberOf(in.ExclusiveStartKey["id"])
		start, _ = slices.BinarySearch(ids, after+1)
	}
	end := len(ids)
	if f.pageSize > 0 && start+f.pageSize < end {
		end = start + f.pageSize
	}

	floor := -1
	if v, ok := in.ExpressionAttributeValues[":counter"]; ok {
		floor = numberOf(v)
	}

	out := &dynamodb.ScanOutput{}
	for _, id := range ids[start:end] {
		out.ScannedCount++
		if id <= floor {
			continue
		}
		out.Count++
		if in.Select != types.SelectCount {
			out.Items = append(out.Items, copyItem(f.items[id]))
		}
	}
	if end < len(ids) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberN{Value: strconv.Itoa(ids[end-1])},
		}
	}
	return out, nil
}
