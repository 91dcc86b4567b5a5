package leveldb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/simaogato/auravault-backend/internal/domain"
)

// key layout
//
//	0x00 'S' 'E' 'Q'         next sequence number (8 bytes, big endian)
//	'O' <sequence>           operation record as JSON
//	'I' <operation id>       sequence of the operation
const (
	operationPrefix = 'O'
	indexPrefix     = 'I'
)

var sequenceKey = []byte{0x00, 'S', 'E', 'Q'}

// operationRepository implements domain.OperationRepository on a LevelDB database
type operationRepository struct {
	mu sync.Mutex // serializes sequence allocation
	db *leveldb.DB
}

// Open opens (or creates) the operation journal database at path
func Open(path string) (*leveldb.DB, error) {
	db, err := leveldb.OpenFile(path, &ldb_opt.Options{ErrorIfExist: false})
	if err != nil {
		return nil, fmt.Errorf("failed to open leveldb at %s: %w", path, err)
	}
	return db, nil
}

// NewOperationRepository creates an operation journal stored in db
func NewOperationRepository(db *leveldb.DB) domain.OperationRepository {
	return &operationRepository{db: db}
}

// Create appends op under the next sequence number
func (r *operationRepository) Create(ctx context.Context, op *domain.Operation) error {
	value, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("failed to encode operation: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	seq, err := r.nextSequence()
	if err != nil {
		return err
	}
	seqBytes := encodeSequence(seq)

	batch := new(leveldb.Batch)
	batch.Put(prefixKey(operationPrefix, seqBytes), value)
	batch.Put(prefixKey(indexPrefix, op.ID[:]), seqBytes)
	batch.Put(sequenceKey, encodeSequence(seq+1))
	if err := r.db.Write(batch, nil); err != nil {
		return fmt.Errorf("failed to store operation: %w", err)
	}
	return nil
}

// Delete removes an operation and its index entry
func (r *operationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	indexKey := prefixKey(indexPrefix, id[:])
	seqBytes, err := r.db.Get(indexKey, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return domain.ErrOperationNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up operation %s: %w", id, err)
	}

	batch := new(leveldb.Batch)
	batch.Delete(prefixKey(operationPrefix, seqBytes))
	batch.Delete(indexKey)
	if err := r.db.Write(batch, nil); err != nil {
		return fmt.Errorf("failed to delete operation %s: %w", id, err)
	}
	return nil
}

// List walks the operation range backwards so the newest record comes first
func (r *operationRepository) List(ctx context.Context, limit, offset int) ([]*domain.Operation, error) {
	iter := r.db.NewIterator(util.BytesPrefix([]byte{operationPrefix}), nil)
	defer iter.Release()

	result := make([]*domain.Operation, 0)
	skipped := 0
	for ok := iter.Last(); ok; ok = iter.Prev() {
		if skipped < offset {
			skipped++
			continue
		}
		if limit > 0 && len(result) >= limit {
			break
		}

		var op domain.Operation
		if err := json.Unmarshal(iter.Value(), &op); err != nil {
			return nil, fmt.Errorf("failed to decode operation: %w", err)
		}
		result = append(result, &op)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	return result, nil
}

// Count returns the number of stored operations
func (r *operationRepository) Count(ctx context.Context) (int, error) {
	iter := r.db.NewIterator(util.BytesPrefix([]byte{indexPrefix}), nil)
	defer iter.Release()

	n := 0
	for iter.Next() {
		n++
	}
	if err := iter.Error(); err != nil {
		return 0, fmt.Errorf("failed to count operations: %w", err)
	}
	return n, nil
}

// nextSequence must be called with the lock held
func (r *operationRepository) nextSequence() (uint64, error) {
	value, err := r.db.Get(sequenceKey, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read sequence: %w", err)
	}
	if len(value) != 8 {
		return 0, fmt.Errorf("incompatible sequence length: expected: %d  actual: %d", 8, len(value))
	}
	return binary.BigEndian.Uint64(value), nil
}

func encodeSequence(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func prefixKey(prefix byte, key []byte) []byte {
	k := make([]byte, 0, len(key)+1)
	k = append(k, prefix)
	return append(k, key...)
}
