package ftml

// CommentAttacher makes a second pass over the token stream that binds
// COMMENT/OUTER_DOC/INNER_DOC tokens to the AST slots built by the
// document parser. It walks the same grammar shape as [Parser] but,
// instead of constructing new nodes, mutates the comment slots of an
// already-built [Document] in lockstep with the token stream.
type CommentAttacher struct {
	toks []Token
	idx  int
	errs []error
}

// AttachComments walks doc using toks (the full token stream produced
// alongside doc by [ParseDocument]'s tokenization). It mutates doc in
// place and returns a [*ParseError] with kind [DuplicateInlineComment] for
// every structural element that a second same-line comment follows -- the
// first same-line comment still wins the slot, but the extra one is
// reported rather than silently dropped.
func AttachComments(doc *Document, toks []Token) []error {
	a := &CommentAttacher{toks: toks}
	a.run(doc)

	return a.errs
}

// peekStructural advances past WHITESPACE and drains any comment/newline
// tokens into pending, returning the next non-comment, non-newline,
// non-whitespace token without consuming it.
func (a *CommentAttacher) peekStructural(pending *[]Token) Token {
	for {
		t := a.toks[a.idx]

		switch t.Kind {
		case KindWhitespace:
			a.idx++
		case KindComment, KindOuterDoc, KindInnerDoc, KindNewline:
			*pending = append(*pending, t)
			a.idx++
		default:
			return t
		}
	}
}

func (a *CommentAttacher) advanceStructural(pending *[]Token) Token {
	t := a.peekStructural(pending)
	a.idx++

	return t
}

// drainGap gathers every comment/newline token between the element just
// consumed and the next real structural boundary, transparently skipping
// a single separating COMMA (so `1, // note` attaches "note" exactly as
// if the comma were whitespace).
func (a *CommentAttacher) drainGap() (pending []Token, next Token) {
	for {
		next = a.peekStructural(&pending)
		if next.Kind != KindComma {
			return pending, next
		}

		a.idx++ // consume the comma itself; it carries no comment content
	}
}

// consumeSameLineComment consumes and returns a comment token immediately
// following the cursor, with only WHITESPACE allowed in between -- it
// never looks past a NEWLINE. Called right after consuming a container's
// closing delimiter so the container claims a trailing same-line comment
// as its own inline_comment_end before the enclosing KeyValue's gap
// classification ever sees it.
func (a *CommentAttacher) consumeSameLineComment() (string, bool) {
	i := a.idx
	for i < len(a.toks) && a.toks[i].Kind == KindWhitespace {
		i++
	}

	if i >= len(a.toks) || !a.toks[i].Kind.IsComment() {
		return "", false
	}

	body := CommentBody(a.toks[i].Kind, a.toks[i].Text)
	a.idx = i + 1

	return body, true
}

// gapResult is the classified content of a gap between two structural
// elements.
type gapResult struct {
	inline     string
	hasInline  bool
	innerDoc   []string
	outerDoc   []string
	leading    []string
	endOrphans []string
	// dupErr is set when more than one comment shares the same line: the
	// first still fills inline, but every comment after it on that line
	// is a rejected duplicate rather than a silently dropped one.
	dupErr error
}

// classifyGap splits the raw token run into its constituent pieces.
// allowOuterDoc is set when the next element is a KeyValue (an outer-doc
// run only ever promotes onto a KeyValue). afterOpen is set for the gap
// between a container's opening delimiter and its first element.
// atScopeEnd is set for the gap after the last element, before the
// scope's closing delimiter or EOF.
func classifyGap(pending []Token, allowOuterDoc, afterOpen, atScopeEnd bool) gapResult {
	var res gapResult

	splitIdx := len(pending)

	for i, t := range pending {
		if t.Kind == KindNewline {
			splitIdx = i

			break
		}
	}

	sameLine := filterComments(pending[:splitIdx])
	rest := pending[splitIdx:]

	if len(sameLine) >= 1 {
		res.hasInline = true
		res.inline = CommentBody(sameLine[0].Kind, sameLine[0].Text)
	}

	if len(sameLine) >= 2 {
		res.dupErr = &ParseError{
			Pos:     sameLine[1].Pos,
			Kind:    DuplicateInlineComment,
			Message: "a second same-line comment is not allowed here",
		}
	}

	switch {
	case atScopeEnd:
		// A comment can never share a closing delimiter's own line while
		// still preceding it: a comment always runs to end of line, so
		// anything that followed it on that line would already be part of
		// its text. Every comment here is an orphan on its own line.
		res.endOrphans = commentBodies(filterComments(rest))
	case afterOpen:
		res.innerDoc, res.leading = splitInnerDoc(rest)
	case allowOuterDoc:
		res.outerDoc, res.leading = splitOuterDocRun(rest)
	default:
		res.leading = commentBodies(filterComments(rest))
	}

	return res
}

// splitInnerDoc separates INNER_DOC tokens from the remaining comments,
// which become leading comments for the first element.
func splitInnerDoc(rest []Token) (innerDoc, leading []string) {
	for _, t := range rest {
		switch t.Kind {
		case KindInnerDoc:
			innerDoc = append(innerDoc, CommentBody(t.Kind, t.Text))
		case KindComment, KindOuterDoc:
			leading = append(leading, CommentBody(t.Kind, t.Text))
		}
	}

	return innerDoc, leading
}

// splitOuterDocRun finds the maximal trailing run of consecutive OUTER_DOC
// tokens with no blank-line interruption within the run. Earlier comments
// (of any kind) become leading comments for the next KeyValue.
func splitOuterDocRun(rest []Token) (outerDoc, leading []string) {
	comments := filterComments(rest)
	if len(comments) == 0 {
		return nil, nil
	}

	runStart := len(comments)

	for runStart > 0 && comments[runStart-1].Kind == KindOuterDoc {
		if runStart < len(comments) && blankLineBetween(rest, comments[runStart-1], comments[runStart]) {
			break
		}

		runStart--
	}

	return commentBodies(comments[runStart:]), commentBodies(comments[:runStart])
}

// blankLineBetween reports whether two or more NEWLINE tokens separate a
// from b within the raw token run rest (i.e. at least one blank line).
func blankLineBetween(rest []Token, a, b Token) bool {
	count := 0
	counting := false

	for _, t := range rest {
		if t.Pos == a.Pos {
			counting = true

			continue
		}

		if t.Pos == b.Pos {
			break
		}

		if counting && t.Kind == KindNewline {
			count++
		}
	}

	return count >= 2
}

// collect records gap's duplicate-comment error, if any, on the attacher.
func (a *CommentAttacher) collect(gap gapResult) gapResult {
	if gap.dupErr != nil {
		a.errs = append(a.errs, gap.dupErr)
	}

	return gap
}

func filterComments(toks []Token) []Token {
	out := make([]Token, 0, len(toks))

	for _, t := range toks {
		if t.Kind.IsComment() {
			out = append(out, t)
		}
	}

	return out
}

func commentBodies(toks []Token) []string {
	if len(toks) == 0 {
		return nil
	}

	out := make([]string, 0, len(toks))
	for _, t := range toks {
		out = append(out, CommentBody(t.Kind, t.Text))
	}

	return out
}

// run attaches comments across the whole document.
func (a *CommentAttacher) run(doc *Document) {
	var pending []Token

	next := a.peekStructural(&pending)

	if len(doc.items) == 0 || next.Kind == KindEOF {
		// Empty document: every comment seen becomes a leading comment of
		// the document itself, regardless of kind.
		doc.LeadingComments = commentBodies(filterComments(pending))

		return
	}

	// Nothing precedes the first item, so every comment in this gap sits
	// on a line of its own: INNER_DOC tokens belong to the document, the
	// rest split into the first KeyValue's outer-doc run and leading comments.
	var rest []Token

	for _, t := range pending {
		if t.Kind == KindInnerDoc {
			doc.InnerDocComments = append(doc.InnerDocComments, CommentBody(t.Kind, t.Text))
		} else {
			rest = append(rest, t)
		}
	}

	doc.items[0].OuterDocComments, doc.items[0].LeadingComments = splitOuterDocRun(rest)

	for i, kv := range doc.items {
		a.attachKeyValueBody(kv)

		isLast := i == len(doc.items)-1

		gapToks, _ := a.drainGap()

		if isLast {
			tg := a.collect(classifyGap(gapToks, false, false, true))
			if tg.hasInline {
				kv.InlineComment = tg.inline
			}

			doc.TrailingLeadingComments = tg.endOrphans

			continue
		}

		sg := a.collect(classifyGap(gapToks, true, false, false))
		if sg.hasInline {
			kv.InlineComment = sg.inline
		}

		doc.items[i+1].OuterDocComments = sg.outerDoc
		doc.items[i+1].LeadingComments = sg.leading
	}
}

// attachKeyValueBody consumes exactly the key, '=', and value tokens of
// kv -- no surrounding gap -- so callers control gap classification (the
// gap is shared between this element's inline comment and the next
// element's leading/outer-doc comments, or end-of-scope orphans).
func (a *CommentAttacher) attachKeyValueBody(kv *KeyValue) {
	var pending []Token

	a.advanceStructural(&pending) // key token
	a.advanceStructural(&pending) // '='

	a.attachValue(kv.Value)
}

// attachValue dispatches on node type, consuming tokens and recursing.
func (a *CommentAttacher) attachValue(v ValueNode) {
	switch n := v.(type) {
	case *Scalar:
		var pending []Token

		a.advanceStructural(&pending)
	case *Object:
		a.attachObject(n)
	case *List:
		a.attachList(n)
	}
}

func (a *CommentAttacher) attachObject(o *Object) {
	var openPending []Token

	a.advanceStructural(&openPending) // '{'

	if len(o.items) == 0 {
		a.attachEmptyContainer(&o.InnerDocComments, &o.EndLeadingComments)
		a.consumeClosingDelimiter(&o.InlineCommentEnd)

		return
	}

	var firstGap []Token

	a.peekStructural(&firstGap)

	fg := a.collect(classifyGap(firstGap, false, true, false))
	o.InnerDocComments = fg.innerDoc
	o.items[0].LeadingComments = fg.leading

	for i, kv := range o.items {
		a.attachKeyValueBody(kv)

		isLast := i == len(o.items)-1

		gapToks, _ := a.drainGap()

		if isLast {
			tg := a.collect(classifyGap(gapToks, false, false, true))
			if tg.hasInline {
				kv.InlineComment = tg.inline
			}

			o.EndLeadingComments = append(o.EndLeadingComments, tg.endOrphans...)

			continue
		}

		sg := a.collect(classifyGap(gapToks, true, false, false))
		if sg.hasInline {
			kv.InlineComment = sg.inline
		}

		o.items[i+1].OuterDocComments = sg.outerDoc
		o.items[i+1].LeadingComments = sg.leading
	}

	a.consumeClosingDelimiter(&o.InlineCommentEnd)
}

func (a *CommentAttacher) attachList(l *List) {
	var openPending []Token

	a.advanceStructural(&openPending) // '['

	if len(l.Items) == 0 {
		a.attachEmptyContainer(&l.InnerDocComments, &l.EndLeadingComments)
		a.consumeClosingDelimiter(&l.InlineCommentEnd)

		return
	}

	var firstGap []Token

	a.peekStructural(&firstGap)

	fg := a.collect(classifyGap(firstGap, false, true, false))
	l.InnerDocComments = fg.innerDoc
	setValueLeading(l.Items[0], fg.leading)

	for i, item := range l.Items {
		a.attachValue(item)

		isLast := i == len(l.Items)-1

		gapToks, _ := a.drainGap()

		if isLast {
			tg := a.collect(classifyGap(gapToks, false, false, true))
			if tg.hasInline {
				setValueInline(item, tg.inline)
			}

			l.EndLeadingComments = append(l.EndLeadingComments, tg.endOrphans...)

			continue
		}

		sg := a.collect(classifyGap(gapToks, false, false, false))
		if sg.hasInline {
			setValueInline(item, sg.inline)
		}

		setValueLeading(l.Items[i+1], sg.leading)
	}

	a.consumeClosingDelimiter(&l.InlineCommentEnd)
}

// attachEmptyContainer handles an empty `{}`/`[]` body: any leftover
// INNER_DOC run before the closer still attaches; since there is no
// element to own the rest, it becomes an orphan of the container's end.
func (a *CommentAttacher) attachEmptyContainer(innerDoc, endLeading *[]string) {
	var tail []Token

	a.peekStructural(&tail)

	gap := a.collect(classifyGap(tail, false, true, false))
	*innerDoc = gap.innerDoc
	*endLeading = gap.leading
}

// consumeClosingDelimiter consumes the closing '}'/']' and then claims a
// trailing same-line comment, if any, as the container's own
// inline_comment_end -- before the enclosing KeyValue's own gap
// classification gets a chance to see it.
func (a *CommentAttacher) consumeClosingDelimiter(inlineEnd *string) {
	var closePending []Token

	a.advanceStructural(&closePending)

	if c, ok := a.consumeSameLineComment(); ok {
		*inlineEnd = c
	}
}

func setValueLeading(v ValueNode, comments []string) {
	switch n := v.(type) {
	case *Scalar:
		n.LeadingComments = comments
	case *Object:
		n.LeadingComments = comments
	case *List:
		n.LeadingComments = comments
	}
}

func setValueInline(v ValueNode, comment string) {
	switch n := v.(type) {
	case *Scalar:
		n.InlineComment = comment
	case *Object:
		n.InlineComment = comment
	case *List:
		n.InlineComment = comment
	}
}
