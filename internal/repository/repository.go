package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// repositoryImpl is the concrete implementation of Repository interface.
type repositoryImpl struct {
	db         *sqlx.DB
	chatroom   ChatroomRepository
	contact    ContactRepository
	message    MessageRepository
	inbound    InboundRepository
	token      TokenRepository
	line       LineRepository
	assignment AssignmentRepository
	provider   ProviderRepository
	resource   ResourceRepository
	access     AccessRepository
}

// NewRepository creates a new repository instance.
func NewRepository(db *sqlx.DB) Repository {
	return &repositoryImpl{
		db:         db,
		chatroom:   NewChatroomRepository(db),
		contact:    NewContactRepository(db),
		message:    NewMessageRepository(db),
		inbound:    NewInboundRepository(db),
		token:      NewTokenRepository(db),
		line:       NewLineRepository(db),
		assignment: NewAssignmentRepository(db),
		provider:   NewProviderRepository(db),
		resource:   NewResourceRepository(db),
		access:     NewAccessRepository(db),
	}
}

func (r *repositoryImpl) Chatroom() ChatroomRepository     { return r.chatroom }
func (r *repositoryImpl) Contact() ContactRepository       { return r.contact }
func (r *repositoryImpl) Message() MessageRepository       { return r.message }
func (r *repositoryImpl) Inbound() InboundRepository       { return r.inbound }
func (r *repositoryImpl) Token() TokenRepository           { return r.token }
func (r *repositoryImpl) Line() LineRepository             { return r.line }
func (r *repositoryImpl) Assignment() AssignmentRepository { return r.assignment }
func (r *repositoryImpl) Provider() ProviderRepository     { return r.provider }
func (r *repositoryImpl) Resource() ResourceRepository     { return r.resource }
func (r *repositoryImpl) Access() AccessRepository         { return r.access }

// Ping checks if the database connection is healthy.
func (r *repositoryImpl) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return r.db.PingContext(ctx)
}
