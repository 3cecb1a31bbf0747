package service_test

import (
	"context"
	"sync"

	"github.com/chatlinehq/chatline/internal/events"
	"github.com/chatlinehq/chatline/internal/models"
	"github.com/chatlinehq/chatline/internal/repository"
)

// fakeRepo wires in-memory fakes behind the repository aggregate so service
// tests run without a database. Each sub-fake records the writes it saw.
type fakeRepo struct {
	chatroom   *fakeChatroomRepo
	contact    *fakeContactRepo
	message    *fakeMessageRepo
	inbound    *fakeInboundRepo
	token      *fakeTokenRepo
	line       *fakeLineRepo
	assignment *fakeAssignmentRepo
	provider   *fakeProviderRepo
	resource   *fakeResourceRepo
	access     *fakeAccessRepo
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		chatroom:   &fakeChatroomRepo{bySender: map[string][]*models.Chatroom{}, routes: map[int64]*models.Route{}},
		contact:    &fakeContactRepo{ids: map[contactKey]int64{}},
		message:    &fakeMessageRepo{statuses: map[int64]statusUpdate{}},
		inbound:    &fakeInboundRepo{},
		token:      &fakeTokenRepo{balances: map[string]int64{}},
		line:       &fakeLineRepo{lines: map[int64]*models.Line{}},
		assignment: &fakeAssignmentRepo{threads: map[int64]*models.AssignmentThread{}},
		provider:   &fakeProviderRepo{},
		resource:   &fakeResourceRepo{},
		access:     &fakeAccessRepo{members: map[string][]int64{}},
	}
}

func (r *fakeRepo) Ping() error                                 { return nil }
func (r *fakeRepo) Chatroom() repository.ChatroomRepository     { return r.chatroom }
func (r *fakeRepo) Contact() repository.ContactRepository       { return r.contact }
func (r *fakeRepo) Message() repository.MessageRepository       { return r.message }
func (r *fakeRepo) Inbound() repository.InboundRepository       { return r.inbound }
func (r *fakeRepo) Token() repository.TokenRepository           { return r.token }
func (r *fakeRepo) Line() repository.LineRepository             { return r.line }
func (r *fakeRepo) Assignment() repository.AssignmentRepository { return r.assignment }
func (r *fakeRepo) Provider() repository.ProviderRepository     { return r.provider }
func (r *fakeRepo) Resource() repository.ResourceRepository     { return r.resource }
func (r *fakeRepo) Access() repository.AccessRepository         { return r.access }

type fakeChatroomRepo struct {
	bySender map[string][]*models.Chatroom
	routes   map[int64]*models.Route
	allIDs   []int64
	err      error
}

func (f *fakeChatroomRepo) GetBySenderAddress(address string) ([]*models.Chatroom, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bySender[address], nil
}

func (f *fakeChatroomRepo) GetByID(int64) (*models.Chatroom, error) { return nil, nil }

func (f *fakeChatroomRepo) Route(chatroomID int64) (*models.Route, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.routes[chatroomID], nil
}

func (f *fakeChatroomRepo) AllIDs() ([]int64, error) { return f.allIDs, nil }

type contactKey struct {
	chatroomID int64
	phone      string
}

type fakeContactRepo struct {
	mu      sync.Mutex
	ids     map[contactKey]int64
	nextID  int64
	created []models.Contact
	err     error
}

func (f *fakeContactRepo) Ensure(contact *models.Contact) (int64, bool, error) {
	if f.err != nil {
		return 0, false, f.err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	key := contactKey{contact.ChatroomID, contact.PhoneNumber}
	if id, ok := f.ids[key]; ok {
		return id, false, nil
	}

	f.nextID++
	f.ids[key] = f.nextID
	f.created = append(f.created, *contact)
	return f.nextID, true, nil
}

func (f *fakeContactRepo) GetByID(int64) (*models.Contact, error) { return nil, nil }

type statusUpdate struct {
	status     models.MessageStatus
	externalID *string
	errorMsg   *string
}

type deliveryCall struct {
	externalID string
	status     models.MessageStatus
}

type fakeMessageRepo struct {
	mu             sync.Mutex
	nextID         int64
	created        []*models.Message
	statuses       map[int64]statusUpdate
	createErr      error
	deliveryCalls  []deliveryCall
	deliveryResult bool
	deliveryErr    error
	list           []*models.Message
	total          int64
}

func (f *fakeMessageRepo) Create(msg *models.Message) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	stored := *msg
	stored.ID = f.nextID
	f.created = append(f.created, &stored)
	return f.nextID, nil
}

func (f *fakeMessageRepo) UpdateStatus(id int64, status models.MessageStatus, externalID *string, errorMsg *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.statuses[id] = statusUpdate{status: status, externalID: externalID, errorMsg: errorMsg}
	return nil
}

func (f *fakeMessageRepo) UpdateDeliveryStatus(externalID string, status models.MessageStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deliveryCalls = append(f.deliveryCalls, deliveryCall{externalID, status})
	return f.deliveryResult, f.deliveryErr
}

func (f *fakeMessageRepo) ListByChatrooms([]int64, int, int) ([]*models.Message, error) {
	return f.list, nil
}

func (f *fakeMessageRepo) CountByChatrooms([]int64) (int64, error) { return f.total, nil }

type fakeInboundRepo struct {
	mu      sync.Mutex
	nextID  int64
	created []*models.InboundMessage
	err     error
	list    []*models.InboundMessage
	total   int64
}

func (f *fakeInboundRepo) Create(msg *models.InboundMessage) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	stored := *msg
	stored.ID = f.nextID
	f.created = append(f.created, &stored)
	return f.nextID, nil
}

func (f *fakeInboundRepo) ListByChatrooms([]int64, int, int) ([]*models.InboundMessage, error) {
	return f.list, nil
}

func (f *fakeInboundRepo) CountByChatrooms([]int64) (int64, error) { return f.total, nil }

type fakeTokenRepo struct {
	mu       sync.Mutex
	balances map[string]int64
	debits   int
	err      error
}

func (f *fakeTokenRepo) Debit(userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.debits++
	if f.err != nil {
		return false, f.err
	}
	if f.balances[userID] < 1 {
		return false, nil
	}
	f.balances[userID]--
	return true, nil
}

func (f *fakeTokenRepo) Balance(userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[userID], nil
}

func (f *fakeTokenRepo) Grant(userID string, amount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[userID] += amount
	return nil
}

type fakeLineRepo struct {
	lines map[int64]*models.Line
}

func (f *fakeLineRepo) GetByID(id int64) (*models.Line, error) { return f.lines[id], nil }

type assignmentPair struct {
	lineID    int64
	contactID int64
}

type fakeAssignmentRepo struct {
	mu       sync.Mutex
	threads  map[int64]*models.AssignmentThread
	existing map[assignmentPair]int64
	nextID   int64
	touched  []int64
	resets   []int64
	bumps    []int64
}

func (f *fakeAssignmentRepo) GetThread(id int64) (*models.AssignmentThread, error) {
	return f.threads[id], nil
}

func (f *fakeAssignmentRepo) Create(lineID, contactID int64) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.existing == nil {
		f.existing = map[assignmentPair]int64{}
	}

	pair := assignmentPair{lineID, contactID}
	if id, ok := f.existing[pair]; ok {
		return id, false, nil
	}

	f.nextID++
	f.existing[pair] = f.nextID
	return f.nextID, true, nil
}

func (f *fakeAssignmentRepo) TouchLastMessage(id int64, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched = append(f.touched, id)
	return nil
}

func (f *fakeAssignmentRepo) ResetUnread(id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets = append(f.resets, id)
	return nil
}

func (f *fakeAssignmentRepo) IncrementUnreadForContact(contactID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bumps = append(f.bumps, contactID)
	return nil
}

type fakeProviderRepo struct {
	mu       sync.Mutex
	nextID   int64
	accounts []*models.ProviderAccount
}

func (f *fakeProviderRepo) List() ([]*models.ProviderAccount, error) { return f.accounts, nil }

func (f *fakeProviderRepo) GetByID(id int64) (*models.ProviderAccount, error) {
	for _, a := range f.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeProviderRepo) Create(account *models.ProviderAccount) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	stored := *account
	stored.ID = f.nextID
	f.accounts = append(f.accounts, &stored)
	return f.nextID, nil
}

type fakeResourceRepo struct {
	entries  []*models.ResourceEntry
	imported [][]int64
}

func (f *fakeResourceRepo) ListAssigned(string, []int64) ([]*models.ResourceEntry, error) {
	return f.entries, nil
}

func (f *fakeResourceRepo) MarkImported(ids []int64) error {
	f.imported = append(f.imported, ids)
	return nil
}

type fakeAccessRepo struct {
	members map[string][]int64
}

func (f *fakeAccessRepo) IsMember(userID string, chatroomID int64) (bool, error) {
	for _, id := range f.members[userID] {
		if id == chatroomID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAccessRepo) ChatroomIDs(userID string) ([]int64, error) {
	return f.members[userID], nil
}

// fakePublisher records published envelopes.
type fakePublisher struct {
	mu   sync.Mutex
	keys []string
	envs []events.Envelope
}

func (p *fakePublisher) Publish(_ context.Context, key string, env events.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	p.envs = append(p.envs, env)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

// fakeDeduper is a stateful in-memory id store: keys only read as seen after
// MarkSeen recorded them.
type fakeDeduper struct {
	seen    map[string]bool
	seenErr error
	markErr error
	checks  []string
	marked  []string
}

func (d *fakeDeduper) Seen(_ context.Context, key string) (bool, error) {
	d.checks = append(d.checks, key)
	if d.seenErr != nil {
		return false, d.seenErr
	}
	return d.seen[key], nil
}

func (d *fakeDeduper) MarkSeen(_ context.Context, key string) error {
	if d.markErr != nil {
		return d.markErr
	}
	if d.seen == nil {
		d.seen = make(map[string]bool)
	}
	d.seen[key] = true
	d.marked = append(d.marked, key)
	return nil
}

// fakeExtIDCache records external id mappings.
type fakeExtIDCache struct {
	mu     sync.Mutex
	stored map[string]int64
	err    error
}

func (c *fakeExtIDCache) Remember(_ context.Context, externalID string, messageID int64) error {
	if c.err != nil {
		return c.err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stored == nil {
		c.stored = map[string]int64{}
	}
	c.stored[externalID] = messageID
	return nil
}
