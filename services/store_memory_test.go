package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"trailmate_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// memoryTableKeys declares the key schema of each table the fake knows
// about: partition key first, optional sort key second.
var memoryTableKeys = map[string][]string{
	models.UserProfilesTable: {"userId"},
	models.InteractionsTable: {"userId", "recordKey"},
	models.ChatsTable:        {"chatId"},
	models.MessagesTable:     {"chatId", "createdAt"},
	models.TripsTable:        {"userId", "tripId"},
}

// memoryStore is an in-memory DataStore for the service tests. It honors
// the same contract DynamoService does: (nil, nil) for absent items,
// ascending sort-key order from QueryByPartition, and all-or-nothing
// TransactWrite.
type memoryStore struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue

	// transactErr, when set, fails the next TransactWrite without
	// applying any of its ops.
	transactErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{tables: make(map[string]map[string]map[string]types.AttributeValue)}
}

func attrString(item map[string]types.AttributeValue, name string) (string, error) {
	v, ok := item[name].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("attribute %q is missing or not a string", name)
	}
	return v.Value, nil
}

func (m *memoryStore) itemKey(tableName string, item map[string]types.AttributeValue) (string, error) {
	names, ok := memoryTableKeys[tableName]
	if !ok {
		return "", fmt.Errorf("unknown table %q", tableName)
	}
	key := ""
	for _, name := range names {
		v, err := attrString(item, name)
		if err != nil {
			return "", fmt.Errorf("table %q: %w", tableName, err)
		}
		key += v + "\x00"
	}
	return key, nil
}

func (m *memoryStore) table(tableName string) map[string]map[string]types.AttributeValue {
	if m.tables[tableName] == nil {
		m.tables[tableName] = make(map[string]map[string]types.AttributeValue)
	}
	return m.tables[tableName]
}

func (m *memoryStore) GetItem(_ context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k, err := m.itemKey(tableName, key)
	if err != nil {
		return nil, err
	}
	item, ok := m.table(tableName)[k]
	if !ok {
		return nil, nil
	}
	return item, nil
}

func (m *memoryStore) PutItem(_ context.Context, tableName string, item interface{}) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.putLocked(tableName, marshaled)
}

func (m *memoryStore) putLocked(tableName string, item map[string]types.AttributeValue) error {
	k, err := m.itemKey(tableName, item)
	if err != nil {
		return err
	}
	m.table(tableName)[k] = item
	return nil
}

func (m *memoryStore) DeleteItem(_ context.Context, tableName string, key map[string]types.AttributeValue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteLocked(tableName, key)
}

func (m *memoryStore) deleteLocked(tableName string, key map[string]types.AttributeValue) error {
	k, err := m.itemKey(tableName, key)
	if err != nil {
		return err
	}
	delete(m.table(tableName), k)
	return nil
}

func (m *memoryStore) QueryByPartition(_ context.Context, tableName, keyName, keyValue string, limit int32) ([]map[string]types.AttributeValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var items []map[string]types.AttributeValue
	for _, item := range m.table(tableName) {
		v, err := attrString(item, keyName)
		if err != nil {
			continue
		}
		if v == keyValue {
			items = append(items, item)
		}
	}

	names := memoryTableKeys[tableName]
	if len(names) == 2 {
		sortByAttribute(items, names[1])
	}
	if limit > 0 && int32(len(items)) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (m *memoryStore) ScanAll(_ context.Context, tableName string, result interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]map[string]types.AttributeValue, 0, len(m.table(tableName)))
	for _, item := range m.table(tableName) {
		items = append(items, item)
	}
	names := memoryTableKeys[tableName]
	sortByAttribute(items, names[0])

	return attributevalue.UnmarshalListOfMaps(items, result)
}

func (m *memoryStore) TransactWrite(_ context.Context, ops []TransactWriteOp) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.transactErr != nil {
		err := m.transactErr
		m.transactErr = nil
		return err
	}

	// Marshal every put before touching state so a bad op leaves the
	// store unchanged.
	type pendingPut struct {
		table string
		item  map[string]types.AttributeValue
	}
	var puts []pendingPut
	for _, op := range ops {
		switch {
		case op.Put != nil:
			marshaled, err := attributevalue.MarshalMap(op.Put.Item)
			if err != nil {
				return err
			}
			if _, err := m.itemKey(op.Put.Table, marshaled); err != nil {
				return err
			}
			puts = append(puts, pendingPut{table: op.Put.Table, item: marshaled})
		case op.Delete != nil:
			if _, err := m.itemKey(op.Delete.Table, op.Delete.Key); err != nil {
				return err
			}
		default:
			return errors.New("transact write op has neither put nor delete")
		}
	}

	putIdx := 0
	for _, op := range ops {
		if op.Put != nil {
			if err := m.putLocked(puts[putIdx].table, puts[putIdx].item); err != nil {
				return err
			}
			putIdx++
			continue
		}
		if err := m.deleteLocked(op.Delete.Table, op.Delete.Key); err != nil {
			return err
		}
	}
	return nil
}

func (m *memoryStore) BatchDeleteItems(_ context.Context, tableName string, keys []map[string]types.AttributeValue) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		if err := m.deleteLocked(tableName, key); err != nil {
			return err
		}
	}
	return nil
}

func (m *memoryStore) count(tableName string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.table(tableName))
}

var _ DataStore = (*memoryStore)(nil)
