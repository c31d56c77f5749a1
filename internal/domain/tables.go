package domain

var Tables = []interface{}{
	&InvProduct{},
	&InvSchemaField{},
	&InvOpsLog{},
}
