package storage

// Field references a column of a task run record.
type Field int

const (
	FieldUndefined Field = iota
	FieldID
	FieldComponentName
	FieldTaskName
	FieldResult
	FieldStartTime
	FieldTotalInputDigest
)

func (f Field) String() string {
	switch f {
	case FieldID:
		return "id"
	case FieldComponentName:
		return "component-name"
	case FieldTaskName:
		return "task-name"
	case FieldResult:
		return "result"
	case FieldStartTime:
		return "start-time"
	case FieldTotalInputDigest:
		return "total-input-digest"
	default:
		return "undefined"
	}
}

// Op is a filter comparison operator.
type Op int

const (
	OpUndefined Op = iota
	OpEQ
	OpGT
	OpLT
)

func (o Op) String() string {
	switch o {
	case OpEQ:
		return "eq"
	case OpGT:
		return "gt"
	case OpLT:
		return "lt"
	default:
		return "undefined"
	}
}

// Filter describes a filter condition for queries.
type Filter struct {
	Field    Field
	Operator Op
	Value    any
}

// Order is a sort direction.
type Order int

const (
	OrderUndefined Order = iota
	OrderAsc
	OrderDesc
)

func (o Order) String() string {
	switch o {
	case OrderAsc:
		return "asc"
	case OrderDesc:
		return "desc"
	default:
		return "undefined"
	}
}

// Sorter describes a sort order for queries.
type Sorter struct {
	Field Field
	Order Order
}
