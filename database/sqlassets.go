package sqlassets

import _ "embed"

//go:embed schema/controlplane/users.sql
var UsersSQL string

//go:embed schema/controlplane/gyms.sql
var GymsSQL string

//go:embed schema/gym/members.sql
var MembersSQL string

//go:embed schema/gym/trainers.sql
var TrainersSQL string

//go:embed schema/gym/classes.sql
var ClassesSQL string

//go:embed schema/gym/payments.sql
var PaymentsSQL string

//go:embed schema/gym/entries.sql
var EntriesSQL string

// ControlPlaneDDL lists the assets applied to the shared control-plane
// database, in dependency order.
func ControlPlaneDDL() []string {
	return []string{UsersSQL, GymsSQL}
}

// GymDDL lists the assets applied to every per-gym physical database, in
// dependency order. Control-plane tables are never part of this set.
func GymDDL() []string {
	return []string{MembersSQL, TrainersSQL, ClassesSQL, PaymentsSQL, EntriesSQL}
}
