package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"

	"github.com/fist-o/expoadmin/internal/client/api"
	"github.com/fist-o/expoadmin/internal/client/config"
	"github.com/fist-o/expoadmin/internal/client/crud"
	"github.com/fist-o/expoadmin/internal/client/localdb"
	"github.com/fist-o/expoadmin/internal/client/repositories/localstate"
	"github.com/fist-o/expoadmin/internal/client/schema"
	"github.com/fist-o/expoadmin/internal/client/selection"
	"github.com/fist-o/expoadmin/internal/client/session"
	"github.com/fist-o/expoadmin/internal/logging"
)

// App wires the gateway client, the stores and the REPL together.
type App struct {
	config    *config.Config
	client    *api.Client
	session   *session.Store
	selection *selection.Store
	master    *crud.Controller
	customers *api.Resource
	employees *api.Resource
	state     localstate.Repository
	log       logging.Logger

	db     *sql.DB
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := localdb.Open(ctx, c.StateDBPath)
	if err != nil {
		log.Error(ctx, "error initializing local state database", "err", err)
		return nil, err
	}

	state := localstate.NewSQLiteRepository(db)
	client := api.NewClient(c.APIBaseURL, log)

	sess := session.NewStore(client, state, log)
	client.SetTokenSource(sess.Token)

	sel := selection.NewStore(client, api.NewResource(client, schema.KindExpo.Path()), state, log)

	bindings := make(map[schema.EntityKind]crud.ResourceAPI, len(schema.Kinds))
	for _, kind := range schema.Kinds {
		bindings[kind] = api.NewResource(client, kind.Path())
	}
	master := crud.NewController(bindings, c.PageSize, log)

	return &App{
		config:    c,
		client:    client,
		session:   sess,
		selection: sel,
		master:    master,
		customers: api.NewResource(client, "/customers"),
		employees: api.NewResource(client, "/employees"),
		state:     state,
		log:       log,
		db:        db,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}, nil
}

// Run revalidates any persisted session and enters the command loop. It
// returns when the operator exits or input reaches EOF.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	a.session.Check(ctx)
	if a.session.IsAuthenticated() {
		a.selection.Initialize(ctx)
	}

	a.Root(ctx)
}
