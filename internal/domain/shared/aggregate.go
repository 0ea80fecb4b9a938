package shared

// BaseAggregateRoot extends BaseEntity with a version counter used for
// optimistic locking. Repositories bump the version on every save and
// include the previous value in the UPDATE's WHERE clause.
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`
}

// IncrementVersion bumps the optimistic-locking version.
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// NewBaseAggregateRoot mints an aggregate identity at version 1.
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}
