package bot

import (
	"github.com/tbourn/go-report-bot/internal/domain"
	"github.com/tbourn/go-report-bot/internal/fingerprint"
	"github.com/tbourn/go-report-bot/internal/menu"
)

// Callback-data prefixes. The wire format is fixed: existing deployments have
// live keyboards carrying these exact strings.
const (
	ModelPrefix    = "model_"
	ActionPrefix   = "action_"
	QuantityPrefix = "quantity_"
	DefaultPrefix  = "DEFAULT"

	DeletePrefix        = "delete_"
	ConfirmDeletePrefix = "confdelete_"
	CancelDeleteData    = "canceldelete"

	AdminUserReportData = "admin_UserReport"
	AdminHidePrefix     = "admin_Hide"
)

// closeRow is the sentinel "close report" row appended to every menu level.
func closeRow(prefix string) []Button {
	return []Button{{Label: "-Закрыть отчет-", Data: prefix + fingerprint.Sentinel}}
}

// ModelKeyboard lists the selectable models plus the close row.
func ModelKeyboard(snap domain.CatalogSnapshot) Keyboard {
	var kb Keyboard
	for _, name := range menu.ListModels(snap) {
		kb = append(kb, []Button{{Label: name, Data: ModelPrefix + fingerprint.Of(name)}})
	}
	kb = append(kb, closeRow(ModelPrefix))
	return kb
}

// GroupKeyboard lists the next-level group options plus the close row.
func GroupKeyboard(opts []menu.Option) Keyboard {
	var kb Keyboard
	for _, o := range opts {
		kb = append(kb, []Button{{Label: o.Label, Data: ActionPrefix + o.Token}})
	}
	kb = append(kb, closeRow(ActionPrefix))
	return kb
}

// LeafKeyboard lists the leaf operations plus the close row.
func LeafKeyboard(opts []menu.Option) Keyboard {
	var kb Keyboard
	for _, o := range opts {
		kb = append(kb, []Button{{Label: o.Label, Data: QuantityPrefix + o.Token}})
	}
	kb = append(kb, closeRow(QuantityPrefix))
	return kb
}

// DefaultKeyboard is the main menu: fill a report, optionally view today's
// result.
func DefaultKeyboard(withResult bool) Keyboard {
	kb := Keyboard{
		{{Label: "Заполнить отчет", Data: DefaultPrefix + "_DO"}},
	}
	if withResult {
		kb = append(kb, []Button{{Label: "Посмотреть результат за день", Data: DefaultPrefix + "_CALCULATE"}})
	}
	return kb
}

// AdminKeyboard is the admin menu.
func AdminKeyboard() Keyboard {
	return Keyboard{
		{{Label: "Отчет по всем сотрудникам", Data: AdminUserReportData}},
	}
}

// DeleteKeyboard offers deletion of one listed submission.
func DeleteKeyboard(userID, timestamp string) Keyboard {
	return Keyboard{
		{{Label: "↑ Удалить ↑", Data: DeletePrefix + userID + "_" + timestamp}},
	}
}

// ConfirmDeleteKeyboard replaces DeleteKeyboard after the first tap.
func ConfirmDeleteKeyboard(userID, timestamp string) Keyboard {
	return Keyboard{
		{{Label: "↑ Подтверждаю удаление ↑", Data: ConfirmDeletePrefix + userID + "_" + timestamp}},
		{{Label: "↑ Отмена ↑", Data: CancelDeleteData}},
	}
}
