package model

// Action labels what the battery did during one interval. The values appear
// verbatim in ledger CSV exports.
type Action string

const (
	ActionCharging    Action = "CHARGING"
	ActionIdle        Action = "IDLE"
	ActionDischarging Action = "DISCHARGING"
)

// ActionFromPowers derives the label from a step's charge and discharge
// powers. At most one of them is non-zero.
func ActionFromPowers(chargeKW, dischargeKW float64) Action {
	if chargeKW > 0 {
		return ActionCharging
	}
	if dischargeKW > 0 {
		return ActionDischarging
	}
	return ActionIdle
}
