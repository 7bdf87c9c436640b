package migrations

import (
	"encoding/json"

	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		jsonData := `{
			"id": "pbc_user_info",
			"name": "user_info",
			"type": "base",
			"system": false,
			"fields": [
				{"autogeneratePattern":"[a-z0-9]{15}","hidden":false,"id":"text_ui_id","max":15,"min":15,"name":"id","pattern":"^[a-z0-9]+$","presentable":false,"primaryKey":true,"required":true,"system":true,"type":"text"},
				{"autogeneratePattern":"","hidden":false,"id":"text_ui_user","max":0,"min":0,"name":"user_id","pattern":"","presentable":false,"primaryKey":false,"required":true,"system":false,"type":"text"},
				{"autogeneratePattern":"","hidden":false,"id":"text_ui_ign","max":32,"min":0,"name":"ign","pattern":"","presentable":true,"primaryKey":false,"required":false,"system":false,"type":"text"},
				{"hidden":false,"id":"select_ui_region","maxSelect":1,"name":"region","presentable":false,"required":false,"system":false,"type":"select","values":["NA","EU"]},
				{"hidden":false,"id":"number_ui_last_test","max":null,"min":null,"name":"last_test_timestamp","onlyInt":true,"presentable":false,"required":false,"system":false,"type":"number"},
				{"hidden":false,"id":"autodate_ui_created","name":"created","onCreate":true,"onUpdate":false,"presentable":false,"system":false,"type":"autodate"},
				{"hidden":false,"id":"autodate_ui_updated","name":"updated","onCreate":true,"onUpdate":true,"presentable":false,"system":false,"type":"autodate"}
			],
			"indexes": [
				"CREATE UNIQUE INDEX ` + "`idx_user_info_user_id`" + ` ON ` + "`user_info`" + ` (` + "`user_id`" + `)"
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
		collection, err := app.FindCollectionByNameOrId("pbc_user_info")
		if err != nil {
			return err
		}

		return app.Delete(collection)
	})
}
