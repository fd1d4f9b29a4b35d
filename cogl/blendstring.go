package cogl

import (
	"fmt"
	"strconv"
	"strings"
)

// Blend strings describe either a blend equation or a texture combine as one
// or two statements of the form
//
//	RGBA = ADD(SRC_COLOR, DST_COLOR*(1-SRC_COLOR[A]))
//	RGB = MODULATE(PREVIOUS, TEXTURE) A = REPLACE(TEXTURE)
//
// The grammar is small enough that the parser is a hand written state
// machine that reports the byte offset of the first problem.

type blendStringContext uint8

const (
	blendStringBlending blendStringContext = iota
	blendStringCombine
)

func (c blendStringContext) String() string {
	if c == blendStringBlending {
		return "blend"
	}
	return "texture combine"
}

type channelMask uint8

const (
	maskRGB channelMask = iota
	maskAlpha
	maskRGBA
)

type colorSourceKind uint8

const (
	sourceSrcColor colorSourceKind = iota
	sourceDstColor
	sourceConstant
	sourceTexture
	sourceTextureN
	sourcePrimary
	sourcePrevious
)

type colorSourceInfo struct {
	kind colorSourceKind
	name string
}

var blendingSources = []colorSourceInfo{
	{sourceSrcColor, "SRC_COLOR"},
	{sourceDstColor, "DST_COLOR"},
	{sourceConstant, "CONSTANT"},
}

var combineSources = []colorSourceInfo{
	{sourceTexture, "TEXTURE"},
	{sourcePrimary, "PRIMARY"},
	{sourceConstant, "CONSTANT"},
	{sourcePrevious, "PREVIOUS"},
}

var textureNSource = colorSourceInfo{sourceTextureN, "TEXTURE_N"}

type blendFunction struct {
	name    string
	argc    int
	combine CombineFunc
}

// Names are matched by prefix so longer names sharing a prefix come first.
var combineFunctions = []blendFunction{
	{"REPLACE", 1, CombineReplace},
	{"MODULATE", 2, CombineModulate},
	{"ADD_SIGNED", 2, CombineAddSigned},
	{"ADD", 2, CombineAdd},
	{"INTERPOLATE", 3, CombineInterpolate},
	{"SUBTRACT", 2, CombineSubtract},
	{"DOT3_RGBA", 2, CombineDot3RGBA},
	{"DOT3_RGB", 2, CombineDot3RGB},
}

var blendFunctions = []blendFunction{
	{name: "ADD", argc: 2},
}

type blendColorSource struct {
	isZero   bool
	info     *colorSourceInfo
	texture  int
	oneMinus bool
	mask     channelMask
}

type blendFactorArg struct {
	isOne              bool
	isColor            bool
	isSrcAlphaSaturate bool
	source             blendColorSource
}

type blendArg struct {
	source blendColorSource
	factor blendFactorArg
}

type blendStatement struct {
	mask channelMask
	fn   *blendFunction
	args [3]blendArg
}

// BlendStringErrorKind classifies a BlendStringError.
type BlendStringErrorKind uint8

const (
	// BlendStringSyntax is a statement level syntax error.
	BlendStringSyntax BlendStringErrorKind = iota
	// BlendStringArgumentSyntax is a syntax error inside a function argument.
	BlendStringArgumentSyntax
	// BlendStringInvalid is a well formed string that makes no sense in its
	// context.
	BlendStringInvalid
	// BlendStringUnsupported needs a driver feature that is missing.
	BlendStringUnsupported
)

// BlendStringError reports why a blend or combine string was rejected.
// Offset and Arg are -1 when they do not apply.
type BlendStringError struct {
	Kind    BlendStringErrorKind
	Context string
	Offset  int
	Arg     int
	Msg     string
}

func (e *BlendStringError) Error() string {
	switch e.Kind {
	case BlendStringSyntax:
		return fmt.Sprintf("cogl: syntax error at offset %d: %s", e.Offset, e.Msg)
	case BlendStringArgumentSyntax:
		return fmt.Sprintf("cogl: syntax error for argument %d at offset %d: %s", e.Arg, e.Offset, e.Msg)
	}
	return fmt.Sprintf("cogl: invalid %s string: %s", e.Context, e.Msg)
}

func byteAt(s string, i int) byte {
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSymbolChar(c byte) bool { return isAlpha(c) || c == '_' }

func isAlnumChar(c byte) bool { return isAlpha(c) || isDigit(c) || c == '_' }

func lookupFunction(word string, ctx blendStringContext) *blendFunction {
	fns := combineFunctions
	if ctx == blendStringBlending {
		fns = blendFunctions
	}
	for i := range fns {
		if strings.HasPrefix(word, fns[i].name) {
			return &fns[i]
		}
	}
	return nil
}

// lookupColorSource matches the symbol starting at s[mark:] that ends at
// end. TEXTURE_<n> is recognised by its digit suffix.
func lookupColorSource(s string, mark, end int, ctx blendStringContext) *colorSourceInfo {
	word := s[mark:end]
	if ctx == blendStringCombine && strings.HasPrefix(s[mark:], "TEXTURE_") && isDigit(byteAt(s, mark+8)) {
		return &textureNSource
	}
	sources := combineSources
	if ctx == blendStringBlending {
		sources = blendingSources
	}
	for i := range sources {
		if strings.HasPrefix(word, sources[i].name) {
			return &sources[i]
		}
	}
	return nil
}

type argState uint8

const (
	argStart argState = iota
	argExpectMinus
	argExpectColorSrcName
	argScrapingColorSrcName
	argMaybeColorMask
	argScrapingMask
	argExpectOpenParen
	argExpectFactor
	argMaybeSrcAlphaSaturate
	argMaybeMinus
	argExpectCloseParen
	argMaybeMult
	argExpectEnd
)

// parseArgument parses one function argument starting at pos. It returns the
// index just before the ',' or ')' that terminates the argument.
func parseArgument(s string, pos int, st *blendStatement, argIndex int, ctx blendStringContext) (blendArg, int, error) {
	var arg blendArg
	arg.source.mask = st.mask
	arg.factor.source.mask = st.mask

	state := argStart
	parsingFactor := false
	implicitBrace := false
	mark := 0

	fail := func(i int, msg string) (blendArg, int, error) {
		return arg, 0, &BlendStringError{
			Kind:    BlendStringArgumentSyntax,
			Context: ctx.String(),
			Offset:  i,
			Arg:     argIndex,
			Msg:     msg,
		}
	}

	for i := pos; ; i++ {
		c := byteAt(s, i)
		if isSpace(c) {
			continue
		}
		if c == 0 {
			return fail(i, "unexpected end of string while parsing argument")
		}
		source := &arg.source
		if parsingFactor {
			source = &arg.factor.source
		}

		switch state {
		case argStart:
			switch c {
			case '1':
				state = argExpectMinus
			case '0':
				arg.source.isZero = true
				state = argExpectEnd
			default:
				i--
				state = argExpectColorSrcName
			}

		case argExpectMinus:
			if c != '-' {
				return fail(i, "expected a '-' following the 1")
			}
			arg.source.oneMinus = true
			state = argExpectColorSrcName

		case argExpectColorSrcName:
			if !isSymbolChar(c) {
				return fail(i, "expected a color source name")
			}
			state = argScrapingColorSrcName
			mark = i
			if parsingFactor {
				arg.factor.isColor = true
			}
			fallthrough

		case argScrapingColorSrcName:
			if isSymbolChar(c) {
				continue
			}
			source.info = lookupColorSource(s, mark, i, ctx)
			if source.info == nil {
				return fail(i, "unknown color source name")
			}
			state = argMaybeColorMask
			if source.info.kind == sourceTextureN {
				end := mark + len("TEXTURE_")
				for isDigit(byteAt(s, end)) {
					end++
				}
				n, err := strconv.Atoi(s[mark+len("TEXTURE_") : end])
				if err != nil {
					return fail(i, "invalid texture number given with TEXTURE_N color source")
				}
				source.texture = n
				i = end - 1
				continue
			}
			fallthrough

		case argMaybeColorMask:
			if c != '[' {
				i--
				if parsingFactor {
					state = argExpectCloseParen
				} else {
					state = argMaybeMult
				}
				continue
			}
			state = argScrapingMask
			mark = i
			fallthrough

		case argScrapingMask:
			if c != ']' {
				continue
			}
			switch strings.ReplaceAll(s[mark:i], " ", "") {
			case "[RGBA":
				if st.mask != maskRGBA {
					return fail(i, "you can't use an RGBA color mask if the statement hasn't also got an RGBA= mask")
				}
				source.mask = maskRGBA
			case "[RGB":
				source.mask = maskRGB
			case "[A":
				source.mask = maskAlpha
			default:
				return fail(i, "expected a channel mask of [RGBA] [RGB] or [A]")
			}
			if parsingFactor {
				state = argExpectCloseParen
			} else {
				state = argMaybeMult
			}

		case argExpectOpenParen:
			if c != '(' {
				if !isAlnumChar(c) {
					return fail(i, "expected '(' around blend factor or alpha numeric character for blend factor name")
				}
				// The factor name starts here; revisit it in the next state.
				i--
				implicitBrace = true
			} else {
				implicitBrace = false
			}
			parsingFactor = true
			state = argExpectFactor

		case argExpectFactor:
			switch c {
			case '1':
				state = argMaybeMinus
			case '0':
				arg.source.isZero = true
				state = argExpectCloseParen
			default:
				state = argMaybeSrcAlphaSaturate
				mark = i
			}

		case argMaybeSrcAlphaSaturate:
			if isSymbolChar(c) {
				continue
			}
			if strings.TrimSpace(s[mark:i]) == "SRC_ALPHA_SATURATE" {
				arg.factor.isSrcAlphaSaturate = true
				state = argExpectCloseParen
			} else {
				state = argExpectColorSrcName
				i = mark - 1
			}

		case argMaybeMinus:
			if c == '-' {
				if implicitBrace {
					return fail(i, "expected ( ) braces around blend factor with a subtraction")
				}
				arg.factor.source.oneMinus = true
				state = argExpectColorSrcName
				continue
			}
			arg.factor.isOne = true
			state = argExpectCloseParen
			i--

		case argExpectCloseParen:
			if implicitBrace {
				i--
				state = argExpectEnd
				continue
			}
			if c != ')' {
				return fail(i, "expected closing parenthesis after blend factor")
			}
			state = argExpectEnd

		case argMaybeMult:
			if c == '*' {
				state = argExpectOpenParen
				continue
			}
			arg.factor.isOne = true
			state = argExpectEnd
			fallthrough

		case argExpectEnd:
			if c != ',' && c != ')' {
				return fail(i, "expected , or )")
			}
			return arg, i - 1, nil
		}
	}
}

type parserState uint8

const (
	parserExpectDestChannels parserState = iota
	parserScrapingDestChannels
	parserExpectFunctionName
	parserScrapingFunctionName
	parserExpectArgStart
	parserExpectStatementEnd
)

var endOfStringErrors = [...]string{
	parserExpectDestChannels:   "empty statement",
	parserScrapingDestChannels: "expected an '=' following the destination channel mask",
	parserExpectFunctionName:   "expected a function name",
	parserScrapingFunctionName: "expected parenthesis after the function name",
	parserExpectArgStart:       "expected to find the start of an argument",
	parserExpectStatementEnd:   "expected closing parenthesis for statement",
}

// compileBlendString parses and validates up to two statements. has reports
// driver features; nil means every feature is available.
func compileBlendString(s string, ctx blendStringContext, has func(Feature) bool) ([]blendStatement, error) {
	var statements [2]blendStatement
	state := parserExpectDestChannels
	current := 0
	mark := 0
	argIndex := 0
	remaining := 0

	fail := func(i int, msg string) ([]blendStatement, error) {
		return nil, &BlendStringError{
			Kind:    BlendStringSyntax,
			Context: ctx.String(),
			Offset:  i,
			Arg:     -1,
			Msg:     msg,
		}
	}

parse:
	for i := 0; ; i++ {
		c := byteAt(s, i)
		if isSpace(c) {
			continue
		}
		if c == 0 {
			if state == parserExpectDestChannels && current != 0 {
				break parse
			}
			return fail(i, endOfStringErrors[state])
		}
		st := &statements[current]

		switch state {
		case parserExpectDestChannels:
			mark = i
			state = parserScrapingDestChannels
			fallthrough

		case parserScrapingDestChannels:
			if c != '=' {
				continue
			}
			switch word := s[mark:i]; {
			case strings.HasPrefix(word, "RGBA"):
				st.mask = maskRGBA
			case strings.HasPrefix(word, "RGB"):
				st.mask = maskRGB
			case strings.HasPrefix(word, "A"):
				st.mask = maskAlpha
			default:
				return fail(i, "unknown destination channel mask; expected RGBA=, RGB= or A=")
			}
			state = parserExpectFunctionName

		case parserExpectFunctionName:
			mark = i
			state = parserScrapingFunctionName
			fallthrough

		case parserScrapingFunctionName:
			if c != '(' {
				if !isAlnumChar(c) {
					return fail(i, "non alpha numeric character in function name")
				}
				continue
			}
			st.fn = lookupFunction(s[mark:i], ctx)
			if st.fn == nil {
				return fail(i, "unknown function name")
			}
			remaining = st.fn.argc
			argIndex = 0
			state = parserExpectArgStart
			fallthrough

		case parserExpectArgStart:
			if c != '(' && c != ',' {
				continue
			}
			if remaining > 0 {
				arg, end, err := parseArgument(s, i+1, st, argIndex, ctx)
				if err != nil {
					return nil, err
				}
				st.args[argIndex] = arg
				i = end
				argIndex++
				remaining--
			}
			if remaining == 0 {
				state = parserExpectStatementEnd
			}

		case parserExpectStatementEnd:
			if c != ')' {
				return fail(i, "expected end of statement")
			}
			state = parserExpectDestChannels
			current++
			if current == len(statements) {
				break parse
			}
		}
	}

	out := statements[:current]
	if err := validateStatements(out, ctx, has); err != nil {
		return nil, err
	}
	for i := range out {
		Logger().Debug("cogl: blend string statement", "context", ctx.String(), "index", i, "statement", out[i].String())
	}
	return out, nil
}

func validateStatements(statements []blendStatement, ctx blendStringContext, has func(Feature) bool) error {
	invalid := func(kind BlendStringErrorKind, msg string) error {
		return &BlendStringError{Kind: kind, Context: ctx.String(), Offset: -1, Arg: -1, Msg: msg}
	}
	if len(statements) == 1 {
		switch statements[0].mask {
		case maskAlpha:
			return invalid(BlendStringInvalid, "you need to also give a blend statement for the RGB channels")
		case maskRGB:
			return invalid(BlendStringInvalid, "you need to also give a blend statement for the Alpha channel")
		}
	}

	if ctx == blendStringCombine {
		for i := range statements {
			for j := 0; j < statements[i].fn.argc; j++ {
				arg := &statements[i].args[j]
				if arg.source.isZero {
					return invalid(BlendStringInvalid, "you can't use the constant '0' as a texture combine argument")
				}
				if !arg.factor.isOne {
					return invalid(BlendStringInvalid, "argument factors are only relevant to blending not texture combining")
				}
			}
		}
		return nil
	}

	if has == nil {
		has = func(Feature) bool { return true }
	}
	if len(statements) == 2 && !has(FeatureBlendEquationSeparate) &&
		statements[0].fn != statements[1].fn {
		return invalid(BlendStringUnsupported, "separate blend functions for the RGB and A channels aren't supported by the driver")
	}
	for i := range statements {
		for j := 0; j < statements[i].fn.argc; j++ {
			arg := &statements[i].args[j]
			if arg.source.isZero {
				continue
			}
			if (j == 0 && arg.source.info.kind != sourceSrcColor) ||
				(j == 1 && arg.source.info.kind != sourceDstColor) {
				return invalid(BlendStringInvalid, "for blending you must always use SRC_COLOR for arg0 and DST_COLOR for arg1")
			}
			if arg.factor.isColor && arg.factor.source.info.kind == sourceConstant &&
				!has(FeatureBlendConstant) {
				return invalid(BlendStringUnsupported, "driver doesn't support constant blend factors")
			}
		}
	}
	return nil
}

// splitRGBA turns one RGBA statement into equivalent RGB and A statements.
func splitRGBA(st *blendStatement) (rgb, a blendStatement) {
	rgb, a = *st, *st
	rgb.mask, a.mask = maskRGB, maskAlpha
	for i := 0; i < st.fn.argc; i++ {
		arg := &st.args[i]
		if arg.source.mask == maskRGBA {
			rgb.args[i].source.mask = maskRGB
			a.args[i].source.mask = maskAlpha
		}
		if arg.factor.isColor && arg.factor.source.mask == maskRGBA {
			rgb.args[i].factor.source.mask = maskRGB
			a.args[i].factor.source.mask = maskAlpha
		}
	}
	return rgb, a
}

// rgbAndAlpha returns the statements for the color and alpha channels.
func rgbAndAlpha(statements []blendStatement) (rgb, a blendStatement) {
	if len(statements) == 1 || statements[0].mask == maskRGBA {
		return splitRGBA(&statements[0])
	}
	if statements[0].mask == maskAlpha {
		return statements[1], statements[0]
	}
	return statements[0], statements[1]
}

func (a *blendArg) blendFactor() BlendFactor {
	if a.source.isZero {
		return BlendZero
	}
	if a.factor.isOne {
		return BlendOne
	}
	if a.factor.isSrcAlphaSaturate {
		return BlendSrcAlphaSaturate
	}
	fs := &a.factor.source
	alpha := fs.mask == maskAlpha
	pick := func(color, oneMinusColor, alphaF, oneMinusAlpha BlendFactor) BlendFactor {
		switch {
		case alpha && fs.oneMinus:
			return oneMinusAlpha
		case alpha:
			return alphaF
		case fs.oneMinus:
			return oneMinusColor
		}
		return color
	}
	switch fs.info.kind {
	case sourceSrcColor:
		return pick(BlendSrcColor, BlendOneMinusSrcColor, BlendSrcAlpha, BlendOneMinusSrcAlpha)
	case sourceDstColor:
		return pick(BlendDstColor, BlendOneMinusDstColor, BlendDstAlpha, BlendOneMinusDstAlpha)
	case sourceConstant:
		return pick(BlendConstantColor, BlendOneMinusConstantColor, BlendConstantAlpha, BlendOneMinusConstantAlpha)
	}
	Logger().Warn("cogl: unable to determine blend factor from blend string")
	return BlendOne
}

func (st *blendStatement) combine() (fn CombineFunc, src [3]CombineSource, op [3]CombineOp) {
	fn = st.fn.combine
	for i := 0; i < st.fn.argc; i++ {
		arg := &st.args[i]
		switch arg.source.info.kind {
		case sourceConstant:
			src[i] = CombineSourceConstant
		case sourceTexture:
			src[i] = CombineSourceTexture
		case sourceTextureN:
			src[i] = CombineSourceTextureN(arg.source.texture)
		case sourcePrimary:
			src[i] = CombineSourcePrimaryColor
		case sourcePrevious:
			src[i] = CombineSourcePrevious
		default:
			Logger().Warn("cogl: unexpected texture combine source", "source", arg.source.info.name)
			src[i] = CombineSourceTexture
		}
		switch {
		case arg.source.mask == maskRGB && arg.source.oneMinus:
			op[i] = CombineOpOneMinusSrcColor
		case arg.source.mask == maskRGB:
			op[i] = CombineOpSrcColor
		case arg.source.oneMinus:
			op[i] = CombineOpOneMinusSrcAlpha
		default:
			op[i] = CombineOpSrcAlpha
		}
	}
	return fn, src, op
}

var maskNames = [...]string{maskRGB: "RGB", maskAlpha: "A", maskRGBA: "RGBA"}

func (s *blendColorSource) String() string {
	if s.isZero {
		return "0"
	}
	var b strings.Builder
	if s.oneMinus {
		b.WriteString("1-")
	}
	if s.info.kind == sourceTextureN {
		fmt.Fprintf(&b, "TEXTURE_%d", s.texture)
	} else {
		b.WriteString(s.info.name)
	}
	fmt.Fprintf(&b, "[%s]", maskNames[s.mask])
	return b.String()
}

// String prints the statement in canonical form, for debug logging.
func (st *blendStatement) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s=%s(", maskNames[st.mask], st.fn.name)
	for i := 0; i < st.fn.argc; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		arg := &st.args[i]
		b.WriteString(arg.source.String())
		switch {
		case arg.source.isZero || arg.factor.isOne:
		case arg.factor.isSrcAlphaSaturate:
			b.WriteString("*(SRC_ALPHA_SATURATE)")
		case arg.factor.isColor:
			fmt.Fprintf(&b, "*(%s)", arg.factor.source.String())
		}
	}
	b.WriteString(")")
	return b.String()
}

// SetBlend configures blending from a blend string such as
//
//	RGBA = ADD(SRC_COLOR*(SRC_COLOR[A]), DST_COLOR*(1-SRC_COLOR[A]))
//
// The blend constant is left unchanged.
func (m *Material) SetBlend(description string) error {
	statements, err := compileBlendString(description, blendStringBlending, m.ctx.driver.HasFeature)
	if err != nil {
		return err
	}
	rgb, a := rgbAndAlpha(statements)
	m.SetBlendState(BlendState{
		EquationRGB:   BlendEquationAdd,
		EquationAlpha: BlendEquationAdd,
		SrcRGB:        rgb.args[0].blendFactor(),
		DstRGB:        rgb.args[1].blendFactor(),
		SrcAlpha:      a.args[0].blendFactor(),
		DstAlpha:      a.args[1].blendFactor(),
	})
	return nil
}

// SetLayerCombine configures how the layer at index combines its inputs,
// creating the layer if needed:
//
//	RGBA = MODULATE(PREVIOUS, TEXTURE)
//	RGB = REPLACE(TEXTURE) A = MODULATE(PREVIOUS, TEXTURE[A])
func (m *Material) SetLayerCombine(index int, description string) error {
	statements, err := compileBlendString(description, blendStringCombine, nil)
	if err != nil {
		return err
	}
	rgb, a := rgbAndAlpha(statements)
	var c CombineState
	c.RGBFunc, c.RGBSrc, c.RGBOp = rgb.combine()
	c.AlphaFunc, c.AlphaSrc, c.AlphaOp = a.combine()
	m.SetLayerCombineState(index, c)
	return nil
}
