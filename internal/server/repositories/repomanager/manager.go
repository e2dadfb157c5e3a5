package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/fittrack/internal/dbx"
	"github.com/dmitrijs2005/fittrack/internal/server/repositories/achievements"
	"github.com/dmitrijs2005/fittrack/internal/server/repositories/activities"
	"github.com/dmitrijs2005/fittrack/internal/server/repositories/emails"
	"github.com/dmitrijs2005/fittrack/internal/server/repositories/goals"
	"github.com/dmitrijs2005/fittrack/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/fittrack/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Emails(db dbx.DBTX) emails.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Goals(db dbx.DBTX) goals.Repository
	Activities(db dbx.DBTX) activities.Repository
	Achievements(db dbx.DBTX) achievements.Repository
}
