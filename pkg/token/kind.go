package token

// Kind classifies a Token. Script keywords, SQL keywords, and identifiers
// are distinguished at scan time so the parser never has to re-examine
// lexeme text to dispatch grammar rules.
type Kind int

const (
	EOF Kind = iota

	Identifier

	// Literals
	Number
	String
	True
	False
	Null
	Undefined

	// Punctuation
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	LeftBracket
	RightBracket
	Comma
	Semicolon
	Colon
	Dot
	Plus
	Minus
	Star
	Slash
	Percent
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual
	Arrow // =>

	// Script keywords
	And
	Or
	If
	Else
	While
	For
	Break
	Continue
	Return
	Var
	Fun
	Function

	// SQL keywords
	Select
	Insert
	Update
	Delete
	From
	Where
	Group
	By
	Having
	Order
	Asc
	Desc
	Limit
	Offset
	As
	Distinct
	Join
	Inner
	Left
	Right
	Outer
	Cross
	On
	Values
	Into
	Set
	Union
	All
	Intersect
	Except
	Not
	Between
	Like
	In
	Is
)

var scriptKeywords = map[string]Kind{
	"AND":      And,
	"OR":       Or,
	"IF":       If,
	"ELSE":     Else,
	"WHILE":    While,
	"FOR":      For,
	"BREAK":    Break,
	"CONTINUE": Continue,
	"RETURN":   Return,
	"VAR":      Var,
	"FUN":      Fun,
	"FUNCTION": Function,
	"TRUE":     True,
	"FALSE":    False,
	"NULL":     Null,
	"UNDEFINED": Undefined,
}

var sqlKeywords = map[string]Kind{
	"SELECT":    Select,
	"INSERT":    Insert,
	"UPDATE":    Update,
	"DELETE":    Delete,
	"FROM":      From,
	"WHERE":     Where,
	"GROUP":     Group,
	"BY":        By,
	"HAVING":    Having,
	"ORDER":     Order,
	"ASC":       Asc,
	"DESC":      Desc,
	"LIMIT":     Limit,
	"OFFSET":    Offset,
	"AS":        As,
	"DISTINCT":  Distinct,
	"JOIN":      Join,
	"INNER":     Inner,
	"LEFT":      Left,
	"RIGHT":     Right,
	"OUTER":     Outer,
	"CROSS":     Cross,
	"ON":        On,
	"VALUES":    Values,
	"INTO":      Into,
	"SET":       Set,
	"UNION":     Union,
	"ALL":       All,
	"INTERSECT": Intersect,
	"EXCEPT":    Except,
	"NOT":       Not,
	"BETWEEN":   Between,
	"LIKE":      Like,
	"IN":        In,
	"IS":        Is,
}

// LookupSQLKeyword matches upper-cased text against the SQL keyword table.
// SQL keywords are case-insensitive by contract (§4.1/§4.2/§9).
func LookupSQLKeyword(upper string) (Kind, bool) {
	k, ok := sqlKeywords[upper]
	return k, ok
}

// LookupScriptKeyword matches upper-cased text against the script keyword table.
func LookupScriptKeyword(upper string) (Kind, bool) {
	k, ok := scriptKeywords[upper]
	return k, ok
}
