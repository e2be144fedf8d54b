package configlibsql

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/tursodatabase/libsql-client-go/libsql"

	"gradharvest/lib/sqliteutil"
)

type Struct struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

// OpenDB connects to the configured database and applies the schema. A url
// takes priority over a local file.
func (config Struct) OpenDB(schema string) (*sqlx.DB, error) {
	if config.Url == "" {
		if config.File == "" {
			return nil, fmt.Errorf("either a file or a url must be specified")
		}
		return sqliteutil.OpenDB(schema, config.File)
	}

	values := url.Values{}
	if config.AuthToken != "" {
		values.Add("authToken", config.AuthToken)
	}
	db, err := sqlx.Open("libsql", config.Url+"?"+values.Encode())
	if err != nil {
		return nil, err
	}
	if schema != "" {
		_, err = db.Exec(schema)
		if err != nil && !strings.Contains(err.Error(), "already exists") {
			return nil, err
		}
	}
	return db, nil
}
