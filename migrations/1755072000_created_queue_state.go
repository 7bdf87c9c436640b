package migrations

import (
	"encoding/json"

	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		jsonData := `{
			"id": "pbc_queue_state",
			"name": "queue_state",
			"type": "base",
			"system": false,
			"fields": [
				{"autogeneratePattern":"[a-z0-9]{15}","hidden":false,"id":"text_qs_id","max":15,"min":15,"name":"id","pattern":"^[a-z0-9]+$","presentable":false,"primaryKey":true,"required":true,"system":true,"type":"text"},
				{"hidden":false,"id":"bool_qs_open","name":"open","presentable":false,"required":false,"system":false,"type":"bool"},
				{"autogeneratePattern":"","hidden":false,"id":"text_qs_testee","max":0,"min":0,"name":"current_testee","pattern":"","presentable":false,"primaryKey":false,"required":false,"system":false,"type":"text"},
				{"autogeneratePattern":"","hidden":false,"id":"text_qs_prev","max":0,"min":0,"name":"previous_tier","pattern":"","presentable":false,"primaryKey":false,"required":false,"system":false,"type":"text"},
				{"autogeneratePattern":"","hidden":false,"id":"text_qs_last","max":0,"min":0,"name":"last_testee","pattern":"","presentable":false,"primaryKey":false,"required":false,"system":false,"type":"text"},
				{"autogeneratePattern":"","hidden":false,"id":"text_qs_render","max":0,"min":0,"name":"render_ref","pattern":"","presentable":false,"primaryKey":false,"required":false,"system":false,"type":"text"},
				{"hidden":false,"id":"bool_qs_awaiting","name":"awaiting_advance","presentable":false,"required":false,"system":false,"type":"bool"},
				{"hidden":false,"id":"autodate_qs_created","name":"created","onCreate":true,"onUpdate":false,"presentable":false,"system":false,"type":"autodate"},
				{"hidden":false,"id":"autodate_qs_updated","name":"updated","onCreate":true,"onUpdate":true,"presentable":false,"system":false,"type":"autodate"}
			],
			"indexes": [],
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
		collection, err := app.FindCollectionByNameOrId("pbc_queue_state")
		if err != nil {
			return err
		}

		return app.Delete(collection)
	})
}
