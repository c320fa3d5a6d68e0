/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

import (
	"strconv"
	"strings"
)

// ParserOptions configures how a Parser assembles objects. It covers the
// allowStreams/recoveryMode half of the option set; the lexer and xref
// slots are implicit in Go: the Parser is its own lexer, and references
// are returned unresolved for the XRef to chase.
type ParserOptions struct {
	// AllowStreams permits a "stream" body to follow a dictionary. Trailer
	// parsing wants this off: a trailer dictionary is always bare.
	AllowStreams bool
	// RecoveryMode relaxes structural checks while scanning damaged files:
	// an indirect-object header whose "obj" keyword is mangled is tolerated
	// instead of aborting the scan.
	RecoveryMode bool
}

// Parser tokenizes and assembles PdfObject values from a Stream. One type
// handles both the lexing and the recursive-descent assembly; references
// come back unresolved for an XRef to chase.
type Parser struct {
	stream Stream
	opts   ParserOptions
}

// NewParser wraps stream in a Parser positioned at the stream's current
// offset, with streams allowed and strict structural checks.
func NewParser(stream Stream) *Parser {
	return &Parser{stream: stream, opts: ParserOptions{AllowStreams: true}}
}

// NewParserWithOptions wraps stream in a Parser with explicit options.
func NewParserWithOptions(stream Stream, opts ParserOptions) *Parser {
	return &Parser{stream: stream, opts: opts}
}

// NewParserFromBytes is a convenience constructor for tests and recovery
// scans over fully in-memory data.
func NewParserFromBytes(data []byte) *Parser {
	return &Parser{stream: NewMemStream(data), opts: ParserOptions{AllowStreams: true}}
}

// Seek repositions the underlying stream.
func (p *Parser) Seek(offset int64) error {
	_, err := p.stream.Seek(offset, 0)
	return err
}

// Pos returns the current stream offset.
func (p *Parser) Pos() int64 { return p.stream.Pos() }

func (p *Parser) peekByte() (byte, error) {
	b, err := p.stream.Peek(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (p *Parser) readByte() (byte, error) { return p.stream.GetByte() }

// skipSpaces consumes whitespace and %...EOL comments.
func (p *Parser) skipSpaces() error {
	for {
		b, err := p.peekByte()
		if err != nil {
			return err
		}
		if IsWhiteSpace(b) {
			p.readByte()
			continue
		}
		if b == '%' {
			for {
				b, err := p.readByte()
				if err != nil {
					return err
				}
				if b == '\r' || b == '\n' {
					break
				}
			}
			continue
		}
		return nil
	}
}

// peekRawToken returns the next raw token without consuming it: a run of
// non-whitespace, non-delimiter bytes, or a single delimiter byte. A
// MissingDataError mid-token is propagated (the bytes exist but aren't
// fetched yet); end-of-stream just terminates the token.
func (p *Parser) peekRawToken() (string, error) {
	save := p.stream.Pos()
	if err := p.skipSpaces(); err != nil {
		p.stream.Seek(save, 0)
		return "", err
	}
	var sb strings.Builder
	for {
		b, err := p.peekByte()
		if err != nil {
			if _, isMissing := AsMissingData(err); isMissing {
				p.stream.Seek(save, 0)
				return "", err
			}
			break
		}
		if IsWhiteSpace(b) || IsDelimiter(b) {
			if sb.Len() == 0 {
				sb.WriteByte(b)
				p.readByte()
			}
			break
		}
		sb.WriteByte(b)
		p.readByte()
	}
	tok := sb.String()
	p.stream.Seek(save, 0)
	return tok, nil
}

func (p *Parser) readRawToken() (string, error) {
	save := p.stream.Pos()
	if err := p.skipSpaces(); err != nil {
		return "", err
	}
	var sb strings.Builder
	for {
		b, err := p.peekByte()
		if err != nil {
			if _, isMissing := AsMissingData(err); isMissing {
				p.stream.Seek(save, 0)
				return "", err
			}
			break
		}
		if IsWhiteSpace(b) || IsDelimiter(b) {
			if sb.Len() == 0 {
				sb.WriteByte(b)
				p.readByte()
			}
			break
		}
		sb.WriteByte(b)
		p.readByte()
	}
	return sb.String(), nil
}

// ParseObject parses exactly one PdfObject at the current position: a
// number (bare, or the first of "N G R"/"N G obj"), name, string, hex
// string, array, dictionary (or stream, if "stream" follows immediately),
// bool, null, or indirect reference.
func (p *Parser) ParseObject() (PdfObject, error) {
	if err := p.skipSpaces(); err != nil {
		return nil, err
	}
	b, err := p.peekByte()
	if err != nil {
		return nil, err
	}

	switch {
	case b == '/':
		return p.parseName()
	case b == '(':
		return p.parseLiteralString()
	case b == '[':
		return p.parseArray()
	case b == '<':
		two, err := p.stream.Peek(2)
		if err != nil {
			// A lone '<' with no lookahead yet: propagate MissingData so
			// the caller retries once more bytes are available.
			return nil, err
		}
		if len(two) == 2 && two[1] == '<' {
			return p.parseDictOrStream()
		}
		return p.parseHexString()
	case IsDecimalDigit(b) || b == '+' || b == '-' || b == '.':
		return p.parseNumberOrReference()
	default:
		return p.parseKeyword()
	}
}

func (p *Parser) parseName() (PdfObject, error) {
	p.readByte() // consume '/'
	var sb strings.Builder
	for {
		b, err := p.peekByte()
		if err != nil {
			if _, isMissing := AsMissingData(err); isMissing {
				return nil, err
			}
			break
		}
		if IsWhiteSpace(b) || IsDelimiter(b) {
			break
		}
		p.readByte()
		if b == '#' {
			hex, err := p.stream.Peek(2)
			if err == nil && len(hex) == 2 && isHexByte(hex[0]) && isHexByte(hex[1]) {
				p.stream.GetBytes(2)
				v, _ := strconv.ParseUint(string(hex), 16, 8)
				sb.WriteByte(byte(v))
				continue
			}
		}
		sb.WriteByte(b)
	}
	n := PdfObjectName(sb.String())
	return &n, nil
}

func isHexByte(b byte) bool {
	return IsDecimalDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func (p *Parser) parseLiteralString() (PdfObject, error) {
	p.readByte() // consume '('
	var buf []byte
	depth := 1
	for depth > 0 {
		b, err := p.readByte()
		if err != nil {
			return nil, err
		}
		switch b {
		case '(':
			depth++
			buf = append(buf, b)
		case ')':
			depth--
			if depth > 0 {
				buf = append(buf, b)
			}
		case '\\':
			esc, err := p.readByte()
			if err != nil {
				return nil, err
			}
			switch esc {
			case 'n':
				buf = append(buf, '\n')
			case 'r':
				buf = append(buf, '\r')
			case 't':
				buf = append(buf, '\t')
			case 'b':
				buf = append(buf, '\b')
			case 'f':
				buf = append(buf, '\f')
			case '(', ')', '\\':
				buf = append(buf, esc)
			case '\r':
				// line continuation; also swallow a following \n
				if nb, err := p.peekByte(); err == nil && nb == '\n' {
					p.readByte()
				}
			case '\n':
				// line continuation
			default:
				if IsOctalDigit(esc) {
					val := int(esc - '0')
					for i := 0; i < 2; i++ {
						nb, err := p.peekByte()
						if err != nil || !IsOctalDigit(nb) {
							break
						}
						p.readByte()
						val = val*8 + int(nb-'0')
					}
					buf = append(buf, byte(val))
				} else {
					buf = append(buf, esc)
				}
			}
		default:
			buf = append(buf, b)
		}
	}
	return MakeStringFromBytes(buf), nil
}

func (p *Parser) parseHexString() (PdfObject, error) {
	p.readByte() // consume '<'
	var hexDigits []byte
	for {
		b, err := p.readByte()
		if err != nil {
			return nil, err
		}
		if b == '>' {
			break
		}
		if isHexByte(b) {
			hexDigits = append(hexDigits, b)
		}
	}
	if len(hexDigits)%2 != 0 {
		hexDigits = append(hexDigits, '0')
	}
	raw := make([]byte, len(hexDigits)/2)
	for i := range raw {
		v, _ := strconv.ParseUint(string(hexDigits[i*2:i*2+2]), 16, 8)
		raw[i] = byte(v)
	}
	return MakeStringFromBytes(raw), nil
}

func (p *Parser) parseArray() (PdfObject, error) {
	p.readByte() // consume '['
	arr := MakeArray()
	for {
		if err := p.skipSpaces(); err != nil {
			return nil, err
		}
		b, err := p.peekByte()
		if err != nil {
			return nil, err
		}
		if b == ']' {
			p.readByte()
			return arr, nil
		}
		obj, err := p.ParseObject()
		if err != nil {
			return nil, err
		}
		arr.Append(obj)
	}
}

func (p *Parser) parseDictOrStream() (PdfObject, error) {
	p.stream.GetBytes(2) // consume '<<'
	dict := MakeDict()
	for {
		if err := p.skipSpaces(); err != nil {
			return nil, err
		}
		two, err := p.stream.Peek(2)
		if err != nil {
			return nil, err
		}
		if two[0] == '>' && two[1] == '>' {
			p.stream.GetBytes(2)
			break
		}
		keyObj, err := p.ParseObject()
		if err != nil {
			return nil, err
		}
		key, ok := keyObj.(*PdfObjectName)
		if !ok {
			return nil, NewFormatError("dictionary key is not a name: %v", keyObj)
		}
		val, err := p.ParseObject()
		if err != nil {
			return nil, err
		}
		dict.Set(*key, val)
	}

	if !p.opts.AllowStreams {
		return dict, nil
	}
	save := p.stream.Pos()
	tok, err := p.peekRawToken()
	if err != nil {
		if _, isMissing := AsMissingData(err); isMissing {
			return nil, err
		}
	}
	if err == nil && tok == "stream" {
		p.readRawToken()
		// Per spec, after the "stream" keyword follows CRLF or LF (never a
		// bare CR).
		if b, err := p.peekByte(); err == nil && b == '\r' {
			p.readByte()
		}
		if b, err := p.peekByte(); err == nil && b == '\n' {
			p.readByte()
		}
		length, _ := GetIntVal(dict.Get("Length"))
		data, err := p.stream.GetBytes(length)
		if err != nil {
			return nil, err
		}
		// Consume up to "endstream"; tolerate extra whitespace.
		for {
			tok, err := p.readRawToken()
			if err != nil {
				break
			}
			if tok == "endstream" {
				break
			}
		}
		return &PdfObjectStream{PdfObjectDictionary: dict, Stream: data}, nil
	}
	p.stream.Seek(save, 0)
	return dict, nil
}

func (p *Parser) parseKeyword() (PdfObject, error) {
	tok, err := p.readRawToken()
	if err != nil {
		return nil, err
	}
	switch tok {
	case "true":
		return MakeBool(true), nil
	case "false":
		return MakeBool(false), nil
	case "null":
		return MakeNull(), nil
	}
	cmd := PdfObjectCmd(tok)
	return &cmd, nil
}

// parseNumberOrReference parses a number, or, if it's an integer followed
// by a second integer and then "R" or "obj", a reference or an indirect
// object header. The 2-token lookahead is bounded, so a MissingDataError
// mid-lookahead simply causes the whole call to be retried from the
// original position (the stream hasn't been left partially consumed across
// the lookahead boundary because we restore position on any ambiguity).
func (p *Parser) parseNumberOrReference() (PdfObject, error) {
	save := p.stream.Pos()
	numTok, err := p.readRawToken()
	if err != nil {
		return nil, err
	}
	if !isIntegerToken(numTok) {
		return parseNumberToken(numTok)
	}

	save2 := p.stream.Pos()
	if err := p.skipSpaces(); err != nil {
		if _, isMissing := AsMissingData(err); isMissing {
			p.stream.Seek(save, 0)
			return nil, err
		}
		p.stream.Seek(save2, 0)
		return parseNumberToken(numTok)
	}
	b, err := p.peekByte()
	if err != nil {
		if _, isMissing := AsMissingData(err); isMissing {
			p.stream.Seek(save, 0)
			return nil, err
		}
		p.stream.Seek(save2, 0)
		return parseNumberToken(numTok)
	}
	if !IsDecimalDigit(b) {
		p.stream.Seek(save2, 0)
		return parseNumberToken(numTok)
	}
	genTok, err := p.readRawToken()
	if err != nil {
		p.stream.Seek(save, 0)
		return nil, err
	}
	if !isIntegerToken(genTok) {
		p.stream.Seek(save2, 0)
		return parseNumberToken(numTok)
	}

	save3 := p.stream.Pos()
	tok, err := p.peekRawToken()
	if err != nil {
		if _, isMissing := AsMissingData(err); isMissing {
			p.stream.Seek(save, 0)
			return nil, err
		}
		p.stream.Seek(save3, 0)
		return parseNumberToken(numTok)
	}
	num, _ := strconv.ParseInt(numTok, 10, 64)
	gen, _ := strconv.ParseInt(genTok, 10, 64)
	switch tok {
	case "R":
		p.readRawToken()
		return MakeReference(num, gen), nil
	case "obj":
		// Leave "obj" unconsumed; ParseIndirectObject expects to see it.
		p.stream.Seek(save3, 0)
		return MakeReference(num, gen), nil
	default:
		p.stream.Seek(save2, 0)
		return parseNumberToken(numTok)
	}
}

func isIntegerToken(tok string) bool {
	if tok == "" {
		return false
	}
	for i, c := range tok {
		if i == 0 && (c == '+' || c == '-') {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func parseNumberToken(tok string) (PdfObject, error) {
	if strings.ContainsAny(tok, ".eE") {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return MakeFloat(0), nil
		}
		return MakeFloat(f), nil
	}
	i, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return MakeInteger(0), nil
	}
	return MakeInteger(i), nil
}

// ParseIndirectObject parses "N G obj ... endobj" (or, for streams, "...
// endstream endobj") at the current position.
func (p *Parser) ParseIndirectObject() (*PdfIndirectObject, error) {
	numTok, err := p.readRawToken()
	if err != nil {
		return nil, err
	}
	genTok, err := p.readRawToken()
	if err != nil {
		return nil, err
	}
	kw, err := p.readRawToken()
	if err != nil {
		return nil, err
	}
	num, _ := strconv.ParseInt(numTok, 10, 64)
	gen, _ := strconv.ParseInt(genTok, 10, 64)
	if kw != "obj" {
		// Some writers glue the next token onto the keyword ("obj123");
		// tolerate it when a trailing integer can be extracted.
		tolerated := false
		if strings.HasPrefix(kw, "obj") && len(kw) > 3 {
			if _, err := strconv.ParseInt(kw[3:], 10, 64); err == nil {
				tolerated = true
			}
		}
		if !tolerated && !p.opts.RecoveryMode {
			return nil, NewFormatError("expected 'obj', got %q", kw)
		}
	}

	obj, err := p.ParseObject()
	if err != nil {
		return nil, err
	}
	objId := strconv.FormatInt(num, 10) + " " + strconv.FormatInt(gen, 10)
	if dict, ok := obj.(*PdfObjectDictionary); ok {
		dict.SetObjId(objId)
	}
	if stream, ok := obj.(*PdfObjectStream); ok {
		stream.ObjectNumber, stream.Generation = num, gen
		stream.SetObjId(objId)
	}

	// Consume a trailing "endobj", tolerating a missing one (repair mode
	// relies on this: see core/recovery.go).
	save := p.stream.Pos()
	tok, err := p.peekRawToken()
	if err != nil {
		if _, isMissing := AsMissingData(err); isMissing {
			return nil, err
		}
	}
	if err == nil && tok == "endobj" {
		p.readRawToken()
	} else {
		p.stream.Seek(save, 0)
	}

	return &PdfIndirectObject{PdfObject: obj, ObjectNumber: num, Generation: gen}, nil
}
