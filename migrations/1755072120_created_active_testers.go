package migrations

import (
	"encoding/json"

	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		jsonData := `{
			"id": "pbc_active_testers",
			"name": "active_testers",
			"type": "base",
			"system": false,
			"fields": [
				{"autogeneratePattern":"[a-z0-9]{15}","hidden":false,"id":"text_at_id","max":15,"min":15,"name":"id","pattern":"^[a-z0-9]+$","presentable":false,"primaryKey":true,"required":true,"system":true,"type":"text"},
				{"autogeneratePattern":"","hidden":false,"id":"text_at_user","max":0,"min":0,"name":"user_id","pattern":"","presentable":false,"primaryKey":false,"required":true,"system":false,"type":"text"},
				{"hidden":false,"id":"autodate_at_created","name":"created","onCreate":true,"onUpdate":false,"presentable":false,"system":false,"type":"autodate"}
			],
			"indexes": [
				"CREATE UNIQUE INDEX ` + "`idx_active_testers_user_id`" + ` ON ` + "`active_testers`" + ` (` + "`user_id`" + `)"
			],
			"listRule": null,
			"viewRule": null,
			"createRule": null,
			"updateRule": null,
			"deleteRule": null
		}`

		collection := &core.Collection{}
		if err := json.Unmarshal([]byte(jsonData), collection); err != nil {
			return err
		}

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("pbc_active_testers")
		if err != nil {
			return err
		}

		return app.Delete(collection)
	})
}
