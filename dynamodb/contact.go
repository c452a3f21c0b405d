package dynamodb

import (
	"context"
	"contactmanager/contact"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// counterID is the key of the item holding the last assigned contact id.
// Contact ids start at 1, so it never collides with a contact.
const counterID = 0

// ContactRepository keeps contacts in a table keyed by a numeric "id"
// attribute. Ids come from an atomic counter item so they are never reused.
type ContactRepository struct {
	client API
	table  string
}

type contactItem struct {
	ID           int    `dynamodbav:"id"`
	FirstName    string `dynamodbav:"first_name"`
	LastName     string `dynamodbav:"last_name"`
	Phone        string `dynamodbav:"phone"`
	Email        string `dynamodbav:"email"`
	Organization string `dynamodbav:"organization"`
}

func newContactItem(c contact.Contact) contactItem {
	return contactItem{
		ID:           c.ID,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Phone:        c.Phone,
		Email:        c.Email,
		Organization: c.Organization,
	}
}

func (i contactItem) toContact() contact.Contact {
	return contact.Contact{
		ID:           i.ID,
		FirstName:    i.FirstName,
		LastName:     i.LastName,
		Phone:        i.Phone,
		Email:        i.Email,
		Organization: i.Organization,
	}
}

func NewContactRepository(client API, table string) (*ContactRepository, error) {
	if client == nil {
		return nil, errors.New("dynamodb: client is required")
	}
	if err := validateTable(table); err != nil {
		return nil, err
	}
	return &ContactRepository{
		client: client,
		table:  table,
	}, nil
}

func idKey(id int) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberN{Value: strconv.Itoa(id)},
	}
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

// Seed stores the sample contacts and then sets the counter to 3. A table
// whose counter already exists is left alone, so an emptied table stays
// empty. The counter is written last, so a failed Seed can be retried.
func (r *ContactRepository) Seed(ctx context.Context) error {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &r.table,
		Key:            idKey(counterID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("dynamodb: get contact counter: %w", err)
	}
	if len(out.Item) > 0 {
		return nil
	}

	samples := contact.SampleContacts()
	for _, c := range samples {
		if err := r.putNew(ctx, c); err != nil && !isConditionFailed(err) {
			return err
		}
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &r.table,
		Item: map[string]types.AttributeValue{
			"id":  &types.AttributeValueMemberN{Value: strconv.Itoa(counterID)},
			"seq": &types.AttributeValueMemberN{Value: strconv.Itoa(len(samples))},
		},
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil && !isConditionFailed(err) {
		return fmt.Errorf("dynamodb: init contact counter: %w", err)
	}
	return nil
}

func (r *ContactRepository) AllContacts(ctx context.Context) ([]contact.Contact, error) {
	contacts := []contact.Contact{}
	paginator := dynamodb.NewScanPaginator(r.client, r.scanInput())
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb: scan contacts: %w", err)
		}

		var items []contactItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, fmt.Errorf("dynamodb: unmarshal contacts: %w", err)
		}
		for _, item := range items {
			contacts = append(contacts, item.toContact())
		}
	}

	contact.SortContacts(contacts)
	return contacts, nil
}

func (r *ContactRepository) ContactByID(ctx context.Context, id int) (contact.Contact, bool, error) {
	if id <= counterID {
		return contact.Contact{}, false, nil
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &r.table,
		Key:            idKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return contact.Contact{}, false, fmt.Errorf("dynamodb: get contact: %w", err)
	}
	if len(out.Item) == 0 {
		return contact.Contact{}, false, nil
	}

	var item contactItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return contact.Contact{}, false, fmt.Errorf("dynamodb: unmarshal contact: %w", err)
	}
	return item.toContact(), true, nil
}

func (r *ContactRepository) CreateContact(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return contact.Contact{}, err
	}

	c.ID = id
	if err := r.put(ctx, c); err != nil {
		return contact.Contact{}, err
	}
	return c, nil
}

func (r *ContactRepository) UpdateContact(ctx context.Context, c contact.Contact) (bool, error) {
	if c.ID <= counterID {
		return false, nil
	}

	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           &r.table,
		Key:                 idKey(c.ID),
		UpdateExpression:    aws.String("SET first_name = :first, last_name = :last, phone = :phone, email = :email, organization = :org"),
		ConditionExpression: aws.String("attribute_exists(id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":first": &types.AttributeValueMemberS{Value: c.FirstName},
			":last":  &types.AttributeValueMemberS{Value: c.LastName},
			":phone": &types.AttributeValueMemberS{Value: c.Phone},
			":email": &types.AttributeValueMemberS{Value: c.Email},
			":org":   &types.AttributeValueMemberS{Value: c.Organization},
		},
	})
	if isConditionFailed(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("dynamodb: update contact: %w", err)
	}
	return true, nil
}

func (r *ContactRepository) DeleteContact(ctx context.Context, id int) (contact.Contact, bool, error) {
	if id <= counterID {
		return contact.Contact{}, false, nil
	}

	out, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    &r.table,
		Key:          idKey(id),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return contact.Contact{}, false, fmt.Errorf("dynamodb: delete contact: %w", err)
	}
	if len(out.Attributes) == 0 {
		return contact.Contact{}, false, nil
	}

	var item contactItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &item); err != nil {
		return contact.Contact{}, false, fmt.Errorf("dynamodb: unmarshal contact: %w", err)
	}
	return item.toContact(), true, nil
}

func (r *ContactRepository) CountContacts(ctx context.Context) (int, error) {
	in := r.scanInput()
	in.Select = types.SelectCount

	total := 0
	paginator := dynamodb.NewScanPaginator(r.client, in)
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("dynamodb: count contacts: %w", err)
		}
		total += int(out.Count)
	}
	return total, nil
}

// scanInput skips the counter item.
func (r *ContactRepository) scanInput() *dynamodb.ScanInput {
	return &dynamodb.ScanInput{
		TableName:        &r.table,
		FilterExpression: aws.String("id > :counter"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":counter": &types.AttributeValueMemberN{Value: strconv.Itoa(counterID)},
		},
		ConsistentRead: aws.Bool(true),
	}
}

func (r *ContactRepository) nextID(ctx context.Context) (int, error) {
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        &r.table,
		Key:              idKey(counterID),
		UpdateExpression: aws.String("ADD seq :one"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("dynamodb: next contact id: %w", err)
	}

	var counter struct {
		Seq int `dynamodbav:"seq"`
	}
	if err := attributevalue.UnmarshalMap(out.Attributes, &counter); err != nil {
		return 0, fmt.Errorf("dynamodb: unmarshal contact counter: %w", err)
	}
	return counter.Seq, nil
}

func (r *ContactRepository) put(ctx context.Context, c contact.Contact) error {
	return r.putItem(ctx, c, nil)
}

// putNew stores c only when no item has its id yet.
func (r *ContactRepository) putNew(ctx context.Context, c contact.Contact) error {
	return r.putItem(ctx, c, aws.String("attribute_not_exists(id)"))
}

func (r *ContactRepository) putItem(ctx context.Context, c contact.Contact, condition *string) error {
	av, err := attributevalue.MarshalMap(newContactItem(c))
	if err != nil {
		return fmt.Errorf("dynamodb: marshal contact: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &r.table,
		Item:                av,
		ConditionExpression: condition,
	})
	if err != nil {
		return fmt.Errorf("dynamodb: put contact: %w", err)
	}
	return nil
}
