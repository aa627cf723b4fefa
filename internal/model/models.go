package model

// All lists every model in migration order
func All() []interface{} {
	return []interface{}{&Tenant{}, &User{}, &Project{}, &ProjectMembership{}, &Task{}}
}
