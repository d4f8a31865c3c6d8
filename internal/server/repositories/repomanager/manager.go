package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/snapline/internal/dbx"
	"github.com/dmitrijs2005/snapline/internal/server/repositories/chats"
	"github.com/dmitrijs2005/snapline/internal/server/repositories/friends"
	"github.com/dmitrijs2005/snapline/internal/server/repositories/messages"
	"github.com/dmitrijs2005/snapline/internal/server/repositories/otps"
	"github.com/dmitrijs2005/snapline/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/snapline/internal/server/repositories/snaps"
	"github.com/dmitrijs2005/snapline/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Friends(db dbx.DBTX) friends.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	OTPs(db dbx.DBTX) otps.Repository
	Snaps(db dbx.DBTX) snaps.Repository
	Chats(db dbx.DBTX) chats.Repository
	Messages(db dbx.DBTX) messages.Repository
}
