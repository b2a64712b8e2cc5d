package ast

import "github.com/lykia-rs/lykiadb-sub002/pkg/token"

// JoinKind enumerates the join types recognized by the SQL grammar (§3).
type JoinKind int

const (
	JoinInner JoinKind = iota
	JoinLeft
	JoinLeftOuter
	JoinRight
	JoinCross
)

// CompoundOp enumerates SELECT compound-tail operators (§3).
type CompoundOp int

const (
	CompoundUnion CompoundOp = iota
	CompoundUnionAll
	CompoundIntersect
	CompoundExcept
)

// SqlProjection is one item of a SELECT's projection list: `*`, `alias.*`,
// or `expr [AS alias]` (§4.2).
type SqlProjection struct {
	Span      token.Span
	Wildcard  bool   // true for bare `*`
	Collection string // non-"" for `<ident>.*`
	Expr      Expr   // non-nil for `expr [AS name]`
	Alias     string // explicit or inferred name
}

// SqlCollectionIdentifier names a FROM source: a bare collection, optionally
// namespaced and aliased.
type SqlCollectionIdentifier struct {
	Span      token.Span
	Namespace string // "" if absent, e.g. "<ns>.<name>"
	Name      string
	Alias     string // "" if none given; callers default to Name
}

func (c SqlCollectionIdentifier) EffectiveAlias() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.Name
}

// SqlFromKind tags which shape of a FROM clause source this value is.
type SqlFromKind int

const (
	FromCollection SqlFromKind = iota
	FromExpr                   // a scripting expression yielding an array (EvalScan source)
	FromSubquery
	FromGroup // parenthesized comma/cross-joined group
	FromJoin
)

// SqlFrom is one node of the FROM clause tree, before planning.
type SqlFrom struct {
	Span token.Span
	Kind SqlFromKind

	Collection SqlCollectionIdentifier // FromCollection
	Source     Expr                    // FromExpr
	Alias      string                  // FromExpr/FromSubquery alias

	Subquery *SqlSelect // FromSubquery

	Group []*SqlFrom // FromGroup

	Left       *SqlFrom // FromJoin
	Right      *SqlFrom
	JoinKind   JoinKind
	Constraint Expr // ON clause, nil for CROSS JOIN
}

// SqlOrderingDirection is ASC or DESC.
type SqlOrderingDirection int

const (
	Asc SqlOrderingDirection = iota
	Desc
)

// SqlOrderingTerm is one ORDER BY key.
type SqlOrderingTerm struct {
	Expr      Expr
	Direction SqlOrderingDirection
}

// SqlSelectCore is the non-compound, non-ordered, non-limited body of a
// SELECT (§3).
type SqlSelectCore struct {
	Span       token.Span
	Distinct   bool
	Projection []SqlProjection
	From       *SqlFrom // nil for a FROM-less SELECT
	Where      Expr     // nil if absent
	GroupBy    []Expr
	Having     Expr // nil if absent
}

// SqlCompoundPart chains a compound operator onto a following SELECT core.
type SqlCompoundPart struct {
	Op   CompoundOp
	Core *SqlSelectCore
}

// SqlSelect is a full SELECT: one or more cores glued by compound operators,
// plus ORDER BY / LIMIT / OFFSET that apply to the whole chain (§3).
type SqlSelect struct {
	Span     token.Span
	Core     *SqlSelectCore
	Compound []SqlCompoundPart
	OrderBy  []SqlOrderingTerm
	Limit    Expr // nil if absent
	Offset   Expr // nil if absent
}

// SqlInsert is `INSERT INTO <collection> (VALUES (...), ... | SELECT ...)`.
type SqlInsert struct {
	Span       token.Span
	Collection SqlCollectionIdentifier
	Values     []Expr     // each an ObjectExpr; nil if Select is used
	Select     *SqlSelect // nil if Values is used
}

// SqlAssignment is one `<field> = <expr>` pair of an UPDATE's SET clause.
type SqlAssignment struct {
	Field string
	Value Expr
}

// SqlUpdate is `UPDATE <collection> SET <assignments> [WHERE ...]`.
type SqlUpdate struct {
	Span        token.Span
	Collection  SqlCollectionIdentifier
	Assignments []SqlAssignment
	Where       Expr // nil if absent
}

// SqlDelete is `DELETE FROM <collection> [WHERE ...]`.
type SqlDelete struct {
	Span       token.Span
	Collection SqlCollectionIdentifier
	Where      Expr // nil if absent
}
