package parser

// Statement grammar:
//
//	import       → "import" [kind] [IDENT [","]] ["*" "as" IDENT | "{" specs "}"] "from" STRING
//	             | "import" STRING
//	kind         → "type" | "typeof"
//	export       → "export" "default" (class | interface | function | expr)
//	             | "export" "*" ["as" word] "from" STRING
//	             | "export" ["type"] "{" specs "}" ["from" STRING]
//	             | "export" declaration
//	class        → ["abstract"] "class" [IDENT] heritage "{" ... "}"

import (
	"fmt"

	"github.com/leapstack-labs/valgen/pkg/ast"
	"github.com/leapstack-labs/valgen/pkg/token"
)

// parseStatement parses one top-level statement. Statements that fail to
// parse structurally are kept as raw text.
func (p *Parser) parseStatement() ast.Statement {
	start := p.pos
	if stmt, ok := attempt(p, p.parseStructuredStatement); ok && stmt != nil {
		return stmt
	}
	p.setPos(start)
	return p.parseRawStatement()
}

func (p *Parser) parseStructuredStatement() ast.Statement {
	switch p.token.Type {
	case token.IMPORT:
		if p.checkPeek(token.LPAREN) || p.checkPeek(token.DOT) {
			return nil
		}
		return p.parseImport()
	case token.EXPORT:
		return p.parseExport()
	}
	if decl := p.parseDeclaration(); decl != nil {
		return decl
	}
	if p.startsExprStatement() {
		return p.parseExprStatement()
	}
	return nil
}

// parseDeclaration parses a declaration that may follow `export`. It returns
// nil without consuming anything when the current token starts none.
func (p *Parser) parseDeclaration() ast.Statement {
	switch {
	case p.check(token.CONST) && !p.checkPeek(token.ENUM), p.check(token.LET), p.check(token.VAR):
		return p.parseVarDecl()
	case p.check(token.CLASS), p.checkWord("abstract") && p.checkPeek(token.CLASS):
		return p.parseClass()
	case p.checkWord("type") && p.checkPeek(token.IDENT):
		return p.parseTypeAlias()
	case p.checkWord("interface") && p.checkPeek(token.IDENT):
		return p.parseInterface()
	}
	return nil
}

// endStatement consumes an optional semicolon and checks automatic
// semicolon insertion applies otherwise.
func (p *Parser) endStatement() {
	if p.match(token.SEMICOLON) {
		return
	}
	if p.check(token.EOF) || p.check(token.RBRACE) || p.token.NewlineBefore {
		return
	}
	p.addError(fmt.Sprintf(ErrMissingSemicolon, p.token.Type))
}

// ---------- Imports ----------

func (p *Parser) parseImport() ast.Statement {
	start := p.pos
	p.nextToken() // import

	decl := &ast.ImportDecl{}
	if (p.checkWord("type") || p.check(token.TYPEOF)) && p.importKindApplies() {
		decl.Kind = ast.ImportKind(p.token.Literal)
		p.nextToken()
	}

	if p.check(token.STRING) {
		decl.Source = p.parseStringLit()
		p.endStatement()
		decl.NodeInfo = p.span(start)
		return decl
	}

	needList := true
	if p.check(token.IDENT) {
		local := p.parseIdent()
		decl.Specifiers = append(decl.Specifiers, &ast.ImportDefaultSpec{NodeInfo: local.NodeInfo, Local: local})
		needList = p.match(token.COMMA)
	}
	if needList {
		switch {
		case p.check(token.STAR):
			sstart := p.pos
			p.nextToken()
			p.expectWord("as")
			local := p.parseIdent()
			decl.Specifiers = append(decl.Specifiers, &ast.ImportNamespaceSpec{NodeInfo: p.span(sstart), Local: local})
		case p.check(token.LBRACE):
			decl.Specifiers = append(decl.Specifiers, p.parseImportSpecifiers()...)
		default:
			p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, "import specifiers"))
			return nil
		}
	}

	p.expectWord("from")
	decl.Source = p.parseStringLit()
	p.endStatement()
	decl.NodeInfo = p.span(start)
	return decl
}

// importKindApplies reports whether the current type/typeof word is an
// import kind rather than a default binding named "type".
func (p *Parser) importKindApplies() bool {
	switch p.peek.Type {
	case token.LBRACE, token.STAR:
		return true
	case token.IDENT:
		return !(p.peek.Literal == "from" && p.peek2.Type == token.STRING)
	}
	return false
}

func (p *Parser) parseImportSpecifiers() []ast.ImportSpec {
	p.expect(token.LBRACE)
	var specs []ast.ImportSpec
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		start := p.pos
		spec := &ast.ImportSpecifier{}
		if (p.checkWord("type") || p.check(token.TYPEOF)) && p.specifierKindApplies() {
			spec.Kind = ast.ImportKind(p.token.Literal)
			p.nextToken()
		}
		spec.Imported = p.parseModuleName()
		if p.checkWord("as") {
			p.nextToken()
			spec.Local = p.parseIdent()
		} else if id, ok := spec.Imported.(*ast.Ident); ok && id.Name != "default" {
			spec.Local = &ast.Ident{NodeInfo: id.NodeInfo, Name: id.Name}
		} else {
			p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, "as"))
			return nil
		}
		spec.NodeInfo = p.span(start)
		specs = append(specs, spec)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	return specs
}

func (p *Parser) specifierKindApplies() bool {
	if !token.IsWord(p.peek.Type) && p.peek.Type != token.STRING {
		return false
	}
	if p.peek.Literal == "as" {
		return p.peek2.Type == token.IDENT && p.peek2.Literal == "as"
	}
	return true
}

// parseModuleName parses an import/export name: any word or a string.
func (p *Parser) parseModuleName() ast.Expr {
	if p.check(token.STRING) {
		return p.parseStringLit()
	}
	return p.parseWordIdent()
}

// ---------- Exports ----------

func (p *Parser) parseExport() ast.Statement {
	start := p.pos
	p.nextToken() // export

	switch {
	case p.check(token.DEFAULT):
		p.nextToken()
		ed := &ast.ExportDefaultDecl{}
		switch {
		case p.check(token.CLASS), p.checkWord("abstract") && p.checkPeek(token.CLASS):
			ed.Decl = p.parseClass()
		case p.checkWord("interface") && p.checkPeek(token.IDENT):
			ed.Decl = p.parseInterface()
		case p.check(token.FUNCTION), p.checkWord("async") && p.checkPeek(token.FUNCTION):
			ed.Decl = p.parseRawStatement()
		default:
			ed.Expr = p.parseExpr()
			p.endStatement()
		}
		ed.NodeInfo = p.span(start)
		return ed

	case p.check(token.STAR):
		p.nextToken()
		ea := &ast.ExportAllDecl{}
		if p.checkWord("as") {
			p.nextToken()
			ea.Exported = p.parseWordIdent()
		}
		p.expectWord("from")
		ea.Source = p.parseStringLit()
		p.endStatement()
		ea.NodeInfo = p.span(start)
		return ea

	case p.check(token.LBRACE), p.checkWord("type") && p.checkPeek(token.LBRACE):
		en := &ast.ExportNamedDecl{}
		if p.checkWord("type") {
			en.Kind = ast.ImportType
			p.nextToken()
		}
		en.Specifiers = p.parseExportSpecifiers()
		if p.checkWord("from") {
			p.nextToken()
			en.Source = p.parseStringLit()
		}
		p.endStatement()
		en.NodeInfo = p.span(start)
		return en
	}

	en := &ast.ExportNamedDecl{}
	if decl := p.parseDeclaration(); decl != nil {
		en.Decl = decl
	} else if p.startsOpaqueDeclaration() {
		en.Decl = p.parseRawStatement()
	} else {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, "declaration"))
		return nil
	}
	en.NodeInfo = p.span(start)
	return en
}

// startsOpaqueDeclaration matches exported declarations kept as raw text.
func (p *Parser) startsOpaqueDeclaration() bool {
	switch {
	case p.check(token.FUNCTION), p.check(token.ENUM), p.check(token.CONST) && p.checkPeek(token.ENUM):
		return true
	case p.checkWord("async") && p.checkPeek(token.FUNCTION):
		return true
	case p.checkWord("opaque"), p.checkWord("declare"), p.checkWord("namespace"), p.checkWord("module"):
		return true
	}
	return false
}

func (p *Parser) parseExportSpecifiers() []*ast.ExportSpecifier {
	p.expect(token.LBRACE)
	var specs []*ast.ExportSpecifier
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		start := p.pos
		spec := &ast.ExportSpecifier{Local: p.parseModuleName()}
		if p.checkWord("as") {
			p.nextToken()
			spec.Exported = p.parseModuleName()
		} else {
			spec.Exported = cloneName(spec.Local)
		}
		spec.NodeInfo = p.span(start)
		specs = append(specs, spec)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	return specs
}

func cloneName(e ast.Expr) ast.Expr {
	switch e := e.(type) {
	case *ast.Ident:
		return &ast.Ident{NodeInfo: e.NodeInfo, Name: e.Name}
	case *ast.StringLit:
		return &ast.StringLit{NodeInfo: e.NodeInfo, Value: e.Value, Raw: e.Raw}
	}
	return e
}

// ---------- Declarations ----------

func (p *Parser) parseVarDecl() ast.Statement {
	start := p.pos
	vd := &ast.VarDecl{Kind: p.token.Literal}
	p.nextToken()

	for {
		dstart := p.pos
		if !p.check(token.IDENT) {
			// destructuring patterns stay raw
			p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, token.IDENT))
			return nil
		}
		d := &ast.VarDeclarator{Name: p.parseIdent()}
		if p.match(token.COLON) {
			d.Type = p.parseType()
		}
		if p.match(token.ASSIGN) {
			d.Init = p.parseExpr()
		}
		d.NodeInfo = p.span(dstart)
		vd.Declarators = append(vd.Declarators, d)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.endStatement()
	vd.NodeInfo = p.span(start)
	return vd
}

func (p *Parser) parseClass() ast.Statement {
	start := p.pos
	p.match(token.IDENT) // abstract
	p.expect(token.CLASS)

	cd := &ast.ClassDecl{}
	if p.check(token.IDENT) && !p.checkWord("implements") {
		cd.Name = p.parseIdent()
	}
	for !p.check(token.LBRACE) && !p.check(token.EOF) {
		switch p.token.Type {
		case token.LT:
			if !p.skipAngles() {
				return nil
			}
		case token.LPAREN, token.LBRACKET:
			if !p.skipBalanced() {
				return nil
			}
		default:
			p.nextToken()
		}
	}
	if !p.skipBalanced() {
		return nil
	}
	cd.Text = p.textFrom(start)
	cd.NodeInfo = p.span(start)
	return cd
}

func (p *Parser) parseTypeAlias() ast.Statement {
	start := p.pos
	p.nextToken() // type

	ta := &ast.TypeAliasDecl{Name: p.parseIdent()}
	ta.TypeParams = p.parseTypeParams()
	p.expect(token.ASSIGN)
	ta.Type = p.parseType()
	p.endStatement()
	ta.NodeInfo = p.span(start)
	return ta
}

func (p *Parser) parseInterface() ast.Statement {
	start := p.pos
	p.nextToken() // interface

	id := &ast.InterfaceDecl{Name: p.parseIdent()}
	id.TypeParams = p.parseTypeParams()
	if p.match(token.EXTENDS) {
		for {
			id.Extends = append(id.Extends, p.parseTypeRef())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	id.Body = p.parseObjectType()
	p.match(token.SEMICOLON)
	id.NodeInfo = p.span(start)
	return id
}

// parseTypeParams returns the source text of a type parameter list, if any.
func (p *Parser) parseTypeParams() string {
	if !p.check(token.LT) {
		return ""
	}
	start := p.pos
	p.skipAngles()
	return p.textFrom(start)
}

// ---------- Expression statements ----------

func (p *Parser) startsExprStatement() bool {
	switch p.token.Type {
	case token.IDENT, token.STRING, token.NUMBER, token.TEMPLATE, token.LPAREN,
		token.LBRACKET, token.THIS, token.TRUE, token.FALSE, token.NULL:
		return true
	}
	return false
}

func (p *Parser) parseExprStatement() ast.Statement {
	start := p.pos
	x := p.parseStructuredExpr()
	if !p.atExprEnd() {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, "end of statement"))
		return nil
	}
	p.endStatement()
	return &ast.ExprStmt{NodeInfo: p.span(start), X: x}
}

// ---------- Raw statements ----------

func (p *Parser) parseRawStatement() ast.Statement {
	start := p.pos
	p.skipRawStatement()
	return &ast.RawStmt{NodeInfo: p.span(start), Text: p.textFrom(start)}
}

// skipRawStatement consumes one statement the parser does not model. It
// follows brackets and stops at a semicolon or a line break where automatic
// semicolon insertion would apply.
func (p *Parser) skipRawStatement() {
	start := p.pos
	isDo := p.check(token.DO)
	depth, header, afterHeader := 0, false, -1
	for !p.check(token.EOF) {
		if p.pos > start && depth == 0 && p.token.NewlineBefore && p.pos != afterHeader {
			prev := p.tokenAt(p.pos - 1)
			cont := continuesLine(prev, p.token) ||
				prev.Type == token.ELSE || prev.Type == token.DO ||
				isDo && p.check(token.WHILE)
			if !cont {
				return
			}
		}
		t := p.token
		switch t.Type {
		case token.IF, token.FOR, token.WITH:
			header = header || depth == 0
		case token.WHILE:
			header = header || depth == 0 && !isDo
		case token.LBRACE, token.LBRACE_PIPE, token.LPAREN, token.LBRACKET:
			depth++
		case token.RBRACE, token.PIPE_RBRACE, token.RPAREN, token.RBRACKET:
			if depth == 0 {
				if p.pos == start {
					p.nextToken()
				}
				return
			}
			depth--
			if depth == 0 && header && t.Type == token.RPAREN {
				// the body of if/for/while may start on the next line
				header = false
				afterHeader = p.pos + 1
			}
		}
		p.nextToken()
		if depth == 0 && t.Type == token.SEMICOLON {
			return
		}
	}
}

// continuesLine reports whether a line break between prev and next keeps
// the statement going.
func continuesLine(prev, next token.Token) bool {
	switch prev.Type {
	case token.ASSIGN, token.ARROW, token.DOT, token.QDOT, token.COMMA, token.PLUS,
		token.MINUS, token.STAR, token.PIPE, token.AMP, token.QUESTION, token.COLON,
		token.OPERATOR, token.BANG, token.ELLIPSIS:
		return true
	}
	switch next.Type {
	case token.DOT, token.QDOT, token.ASSIGN, token.ARROW, token.COMMA, token.QUESTION,
		token.COLON, token.PIPE, token.AMP, token.OPERATOR, token.STAR, token.PLUS,
		token.MINUS, token.LPAREN, token.LBRACKET, token.TEMPLATE, token.ELSE,
		token.CATCH, token.FINALLY, token.INSTANCEOF, token.IN:
		return true
	case token.IDENT:
		return next.Literal == "as" || next.Literal == "satisfies"
	}
	return false
}
