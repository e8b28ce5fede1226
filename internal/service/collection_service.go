package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/nurpe/contract-archive/internal/config"
	"github.com/nurpe/contract-archive/internal/model"
	"github.com/nurpe/contract-archive/internal/repository"
)

const (
	fallbackJitter = 1000
	auditTimeFmt   = "2006/01/02 15:04:05"
	anonymousActor = "غير معروف"
)

type CollectionService struct {
	repo           *repository.CollectionRepository
	log            zerolog.Logger
	rejectNonArray bool
	now            func() time.Time
	jitter         func(n int64) int64
}

func NewCollectionService(repo *repository.CollectionRepository, cfg *config.Config, log zerolog.Logger) *CollectionService {
	return &CollectionService{
		repo:           repo,
		log:            log,
		rejectNonArray: cfg.Store.RejectNonArray,
		now:            time.Now,
		jitter:         rand.Int64N,
	}
}

type SaveResult struct {
	Count int     `json:"count"`
	IDs   []int64 `json:"ids"`
}

// List returns the stored documents of a collection.
func (s *CollectionService) List(ctx context.Context, rawTable string) ([]json.RawMessage, error) {
	table, err := parseTable(rawTable)
	if err != nil {
		return nil, err
	}
	docs, err := s.repo.List(ctx, table)
	if err != nil {
		return nil, err
	}
	return toRaw(docs), nil
}

func (s *CollectionService) Get(ctx context.Context, rawTable string, id int64) (json.RawMessage, error) {
	table, err := parseTable(rawTable)
	if err != nil {
		return nil, err
	}
	doc, err := s.repo.Get(ctx, table, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return json.RawMessage(doc.Data), nil
}

// Save replaces a whole collection with the documents in body.
//
// A body that is valid JSON but not an array replaces the collection with an
// empty list unless rejectNonArray is set.
func (s *CollectionService) Save(ctx context.Context, rawTable string, body []byte) (*SaveResult, error) {
	table, err := parseTable(rawTable)
	if err != nil {
		return nil, err
	}

	items, err := s.decodeCollection(body)
	if err != nil {
		return nil, err
	}
	docs, err := s.prepareDocuments(items)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Replace(ctx, table, docs); err != nil {
		return nil, err
	}

	result := &SaveResult{Count: len(docs), IDs: make([]int64, 0, len(docs))}
	for _, doc := range docs {
		result.IDs = append(result.IDs, doc.ID)
	}
	s.log.Debug().Str("table", table.String()).Int("count", result.Count).Msg("collection replaced")
	return result, nil
}

// Backup exports every allow-listed collection.
func (s *CollectionService) Backup(ctx context.Context) (map[string][]json.RawMessage, error) {
	tables, err := s.repo.Backup(ctx)
	if err != nil {
		return nil, err
	}
	result := make(map[string][]json.RawMessage, len(tables))
	for table, docs := range tables {
		result[table.String()] = toRaw(docs)
	}
	return result, nil
}

// Restore replaces every collection whose key in body holds an array. Other
// keys and collections are left untouched.
func (s *CollectionService) Restore(ctx context.Context, body []byte) ([]string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: restore payload must be a JSON object", ErrInvalidInput)
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidInput)
	}

	tables := make(map[model.Table][]repository.Document)
	restored := make([]string, 0, len(model.Tables))
	for _, table := range model.Tables {
		raw, ok := payload[table.String()]
		if !ok || !isArray(raw) {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("%w: %s: malformed JSON", ErrInvalidInput, table)
		}
		docs, err := s.prepareDocuments(items)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", table, err)
		}
		tables[table] = docs
		restored = append(restored, table.String())
	}

	if err := s.repo.Restore(ctx, tables); err != nil {
		return nil, err
	}

	s.log.Info().Strs("tables", restored).Msg("backup restored")
	return restored, nil
}

// AppendAudit stores one audit entry with a timestamp-derived id.
func (s *CollectionService) AppendAudit(ctx context.Context, actor, action string) error {
	if actor == "" {
		actor = anonymousActor
	}
	now := s.now()
	id := now.UnixMilli()
	for {
		_, err := s.repo.Get(ctx, model.TableAuditLog, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			break
		}
		if err != nil {
			return err
		}
		id++
	}

	data, err := json.Marshal(model.AuditLogEntry{
		ID:        id,
		Timestamp: now.Format(auditTimeFmt),
		User:      actor,
		Action:    action,
	})
	if err != nil {
		return err
	}
	return s.repo.Insert(ctx, model.TableAuditLog, repository.Document{ID: id, Data: datatypes.JSON(data)})
}

func (s *CollectionService) Contracts(ctx context.Context) ([]model.Contract, error) {
	return loadTyped[model.Contract](ctx, s, model.TableContracts)
}

func (s *CollectionService) Users(ctx context.Context) ([]model.User, error) {
	return loadTyped[model.User](ctx, s, model.TableUsers)
}

func (s *CollectionService) ContractTypes(ctx context.Context) ([]model.ContractTypeDefinition, error) {
	return loadTyped[model.ContractTypeDefinition](ctx, s, model.TableContractTypes)
}

func (s *CollectionService) Contract(ctx context.Context, id int64) (*model.Contract, error) {
	doc, err := s.repo.Get(ctx, model.TableContracts, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var contract model.Contract
	if err := json.Unmarshal(doc.Data, &contract); err != nil {
		return nil, fmt.Errorf("decode contract %d: %w", id, err)
	}
	if contract.ID == 0 {
		contract.ID = doc.ID
	}
	return &contract, nil
}

// Settings returns the newest settings row, or zero settings when none is
// stored.
func (s *CollectionService) Settings(ctx context.Context) (model.SystemSettings, error) {
	var settings model.SystemSettings
	doc, err := s.repo.Latest(ctx, model.TableSystemSettings)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return settings, nil
		}
		return settings, err
	}
	if err := json.Unmarshal(doc.Data, &settings); err != nil {
		s.log.Warn().Err(err).Int64("id", doc.ID).Msg("ignoring malformed settings row")
		return model.SystemSettings{}, nil
	}
	return settings, nil
}

func loadTyped[T any](ctx context.Context, s *CollectionService, table model.Table) ([]T, error) {
	docs, err := s.repo.List(ctx, table)
	if err != nil {
		return nil, err
	}
	result := make([]T, 0, len(docs))
	for _, doc := range docs {
		var item T
		if err := json.Unmarshal(doc.Data, &item); err != nil {
			s.log.Warn().Err(err).Str("table", table.String()).Int64("id", doc.ID).Msg("skipping malformed document")
			continue
		}
		result = append(result, item)
	}
	return result, nil
}

func (s *CollectionService) decodeCollection(body []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && !json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidInput)
	}
	if !isArray(trimmed) {
		if s.rejectNonArray {
			return nil, fmt.Errorf("%w: body must be a JSON array", ErrInvalidInput)
		}
		s.log.Warn().Msg("non-array collection payload treated as empty list")
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidInput)
	}
	return items, nil
}

// prepareDocuments keys every item by its numeric id. Items without an
// integral id get now-in-milliseconds plus jitter, unique within the batch,
// and the id is written back into the document.
func (s *CollectionService) prepareDocuments(items []json.RawMessage) ([]repository.Document, error) {
	type pending struct {
		fields map[string]json.RawMessage
		index  int
	}

	docs := make([]repository.Document, len(items))
	used := make(map[int64]struct{}, len(items))
	var missing []pending

	for i, item := range items {
		fields, err := decodeObject(item)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrInvalidInput, i, err)
		}
		id, ok := explicitID(fields["id"])
		if !ok {
			missing = append(missing, pending{fields: fields, index: i})
			continue
		}
		if _, dup := used[id]; dup {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrInvalidInput, id)
		}
		used[id] = struct{}{}
		docs[i] = repository.Document{ID: id, Data: datatypes.JSON(bytes.TrimSpace(item))}
	}

	for _, p := range missing {
		id := s.fallbackID(used)
		p.fields["id"] = json.RawMessage(strconv.FormatInt(id, 10))
		data, err := json.Marshal(p.fields)
		if err != nil {
			return nil, err
		}
		docs[p.index] = repository.Document{ID: id, Data: datatypes.JSON(data)}
	}
	return docs, nil
}

func (s *CollectionService) fallbackID(used map[int64]struct{}) int64 {
	id := s.now().UnixMilli() + s.jitter(fallbackJitter)
	for {
		if _, taken := used[id]; !taken {
			used[id] = struct{}{}
			return id
		}
		id++
	}
}

func decodeObject(item json.RawMessage) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(item)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New("document must be a JSON object")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func explicitID(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return 0, false
	}
	num, ok := value.(json.Number)
	if !ok {
		return 0, false
	}
	id, err := num.Int64()
	if err != nil {
		return 0, false
	}
	return id, true
}

func isArray(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func parseTable(raw string) (model.Table, error) {
	table, err := model.ParseTable(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidTable, raw)
	}
	return table, nil
}

func toRaw(docs []repository.Document) []json.RawMessage {
	result := make([]json.RawMessage, 0, len(docs))
	for _, doc := range docs {
		result = append(result, json.RawMessage(doc.Data))
	}
	return result
}
