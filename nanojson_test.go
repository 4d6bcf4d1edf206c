package nanojson_test

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	"github.com/buger/jsonparser"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vinicius-lino-figueiredo/nanojson"
)

type NanojsonTestSuite struct {
	suite.Suite
}

func (s *NanojsonTestSuite) parse(text string, options ...nanojson.ParseOption) nanojson.Value {
	doc, err := nanojson.ParseString(text, options...)
	s.Require().NoError(err)
	return doc.Root()
}

func (s *NanojsonTestSuite) TestParseBoundedPool() {
	text := []byte(`[1,2,-555,true,false,null]`)
	nodes := make([]nanojson.Node, 7)
	n, err := nanojson.Parse(text, nodes)
	s.Require().NoError(err)
	s.Equal(7, n)

	root := nanojson.NewDocument(text, nodes[:n]).Root()
	s.Equal(nanojson.TypeArray, nanojson.TypeOf(root))
	s.Equal(6, nanojson.Length(root))

	types := []nanojson.Type{
		nanojson.TypeNumber, nanojson.TypeNumber, nanojson.TypeNumber,
		nanojson.TypeBoolean, nanojson.TypeBoolean, nanojson.TypeNull,
	}
	for i, v := range root.Children() {
		s.Equal(types[i], v.Type(), i)
		pos, ok := v.Position()
		s.True(ok)
		s.Equal(i, pos)
	}
	s.Equal(int64(-555), nanojson.AsNumber(nanojson.Cell(root, 2), 0))
	s.True(nanojson.AsBoolean(nanojson.Cell(root, 3), false))
	s.Equal("null", nanojson.AsString(nanojson.Cell(root, 5), ""))
	s.False(nanojson.Cell(root, 6).Exists())
}

func (s *NanojsonTestSuite) TestCapacityBoundary() {
	const text = `{"a":[1,{"b":null}],"c":"d"}`

	n, err := nanojson.Parse([]byte(text), make([]nanojson.Node, 6))
	s.Require().NoError(err)
	s.Equal(6, n)

	n, err = nanojson.Parse([]byte(text), make([]nanojson.Node, 5))
	s.Equal(0, n)
	var errCap *nanojson.ErrCapacityExceeded
	s.Require().ErrorAs(err, &errCap)
	s.Equal("nodes", errCap.Resource)
	s.Equal(5, errCap.Capacity)

	_, isSyntax := err.(*nanojson.ErrSyntax)
	s.False(isSyntax)
}

func (s *NanojsonTestSuite) TestItem() {
	root := s.parse(`{"a":1}`)
	a := nanojson.Item(root, "a")
	s.True(a.Exists())
	s.Equal(int64(1), a.Number(-1))
	key, ok := a.Key()
	s.True(ok)
	s.Equal("a", key)

	s.False(nanojson.Item(root, "b").Exists())
	s.False(nanojson.Item(a, "a").Exists())
}

func (s *NanojsonTestSuite) TestSyntaxErrors() {
	cases := []struct {
		text   string
		offset int
	}{
		{text: `0b1`, offset: 0},
		{text: `[1,2`, offset: 4},
		{text: `{"a" 1}`, offset: 5},
		{text: `"abc`, offset: 0},
		{text: `[nul]`, offset: 1},
		{text: ``, offset: 0},
	}
	for _, tc := range cases {
		_, err := nanojson.ParseString(tc.text)
		var errSyntax *nanojson.ErrSyntax
		s.Require().ErrorAs(err, &errSyntax, tc.text)
		off, ok := nanojson.ErrorOffset(err)
		s.True(ok)
		s.Equal(tc.offset, off, tc.text)
	}
}

func (s *NanojsonTestSuite) TestTrailingContent() {
	_, err := nanojson.ParseString(`[1] x`)
	var errTrailing *nanojson.ErrTrailingContent
	s.Require().ErrorAs(err, &errTrailing)
	s.Equal(4, errTrailing.Offset)

	doc, err := nanojson.ParseString(`[1] x`, nanojson.WithAllowTrailing(true))
	s.Require().NoError(err)
	s.Equal(4, doc.End())
}

func (s *NanojsonTestSuite) TestPath() {
	root := s.parse(`{"obj":{"list":[10,20,30]},"with space":{"k":true}}`)

	v := nanojson.Get(root, ".obj.list[2]")
	s.Equal(int64(30), v.Number(-1))
	s.False(nanojson.Get(root, ".obj.list[5]").Exists())
	s.True(root.Get(`["with space"].k`).Boolean(false))
	s.Equal(root.Item("obj").Item("list").Cell(1), root.Get(".obj.list[1]"))

	missing, err := root.Lookup(".nope.list")
	s.NoError(err)
	s.False(missing.Exists())

	_, err = root.Lookup(".obj.list[")
	var errPath *nanojson.ErrPath
	s.Require().ErrorAs(err, &errPath)
	s.False(root.Get(".obj.list[").Exists())
}

func (s *NanojsonTestSuite) TestCoercions() {
	s.Equal(int64(123), s.parse(`"123"`).Number(-1))
	s.True(s.parse(`[]`).Boolean(false))
	s.Equal("null", s.parse(`null`).String(""))
	s.Equal(int64(1), s.parse(`true`).Number(-1))
	s.Equal(int64(3), s.parse(`2.5`).Number(-1))
	s.Equal("1.5", s.parse(`1.50`).String(""))
	s.Equal(int64(7), s.parse(`[7]`).Number(-1))
	s.Equal(int64(0), s.parse(`[7,8]`).Number(-1))
	s.Equal(nanojson.ArrayText, s.parse(`[7,8]`).String(""))
	s.Equal(nanojson.ObjectText, s.parse(`{}`).String(""))
	s.True(math.IsNaN(s.parse(`"x"`).Float(0)))

	var absent nanojson.Value
	s.False(absent.Exists())
	s.Equal(nanojson.TypeUndefined, absent.Type())
	s.Equal(int64(-1), absent.Number(-1))
	s.Equal("dflt", absent.String("dflt"))
	s.Equal(2.5, absent.Float(2.5))
	s.True(absent.Boolean(true))
	s.False(absent.Item("a").Exists())
	s.False(absent.Get(".a").Exists())
}

func (s *NanojsonTestSuite) TestUUID() {
	id := uuid.New()
	root := s.parse(`{"id":"` + id.String() + `","bad":"123"}`)
	s.Equal(id, root.Item("id").UUID(uuid.Nil))
	s.Equal(uuid.Nil, root.Item("bad").UUID(uuid.Nil))
}

func (s *NanojsonTestSuite) TestNumberOptions() {
	s.Equal(int64(1215752192), s.parse(`100000000000`,
		nanojson.WithNumberWidth(32), nanojson.WithOverflow(nanojson.OverflowWrap)).Number(0))
	s.Equal(int64(math.MaxInt32), s.parse(`100000000000`, nanojson.WithNumberWidth(32)).Number(0))
	s.Equal(int64(-256), s.parse(`-0x100`, nanojson.WithHexNumbers(true)).Number(0))

	_, err := nanojson.ParseString(`1.5`, nanojson.WithFloats(false))
	s.Error(err)
}

func (s *NanojsonTestSuite) TestAutoParseDecodesInPlace() {
	text := []byte(`["c\u0041t", "a\tb"]`)
	orig := string(text)
	doc, err := nanojson.AutoParse(text)
	s.Require().NoError(err)
	s.NotEqual(orig, string(text))
	s.Equal("cAt", doc.Root().Cell(0).String(""))
	s.Equal("a\tb", doc.Root().Cell(1).String(""))
	s.Equal(3, doc.Len())
	s.Len(doc.Nodes(), 3)
	s.Same(&text[0], &doc.Text()[0])

	src := `["c\u0041t"]`
	doc, err = nanojson.ParseString(src)
	s.Require().NoError(err)
	s.Equal(`["c\u0041t"]`, src)
	s.Equal(`["cAt"]`, string(nanojson.Marshal(doc.Root())))
}

func (s *NanojsonTestSuite) TestStringify() {
	root := s.parse(`{"a": [1, 2.5, "x"], "b": {}}`)
	const compact = `{"a":[1,2.5,"x"],"b":{}}`

	s.Equal(compact, string(nanojson.Marshal(root)))
	s.True(jsoniter.Valid(nanojson.Marshal(root)))

	dst := make([]byte, 8)
	n := nanojson.Stringify(dst, root)
	s.Equal(len(compact), n)
	s.Equal(compact[:7], string(dst[:7]))
	s.Equal(byte(0), dst[7])

	dst = make([]byte, n+1)
	s.Equal(n, nanojson.Stringify(dst, root))
	s.Equal(compact, string(dst[:n]))

	s.Equal("{\n  \"a\": [\n    1,\n    2.5,\n    \"x\"\n  ],\n  \"b\": {}\n}",
		string(nanojson.Marshal(root, nanojson.WithIndent("", "  "))))

	uni := s.parse(`"é"`)
	s.Equal(`"\u00e9"`, string(nanojson.Marshal(uni, nanojson.WithEscapeUnicode(true))))
	s.Equal(`"é"`, string(nanojson.Marshal(uni)))
}

func (s *NanojsonTestSuite) TestRoundTrip() {
	for _, text := range []string{
		`[1,2,-555,true,false,null]`,
		`{"a":1}`,
		`{"obj":{"list":[10,20,30]},"s":"q\"\\\n"}`,
		`[[],{},[{}],""]`,
		`-122.02602`,
	} {
		s.Equal(text, string(nanojson.Marshal(s.parse(text))))
	}
}

func (s *NanojsonTestSuite) TestMarshalJSON() {
	root := s.parse(`{"list":[1,"two"]}`)
	b, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(map[string]any{
		"v":       root.Item("list"),
		"missing": root.Item("none"),
	})
	s.Require().NoError(err)
	s.JSONEq(`{"v":[1,"two"],"missing":null}`, string(b))
}

type thumbnail struct {
	URL    string `json:"Url"`
	Height int
	Width  string
}

type image struct {
	Width     int
	Height    int
	Title     string
	Thumbnail thumbnail
	IDs       []int
}

const imageDoc = `{"Width":800,"Height":600,"Title":"View from 15th Floor",` +
	`"Thumbnail":{"Url":"http://www.example.com/image/481989943","Height":125,"Width":"100"},` +
	`"IDs":[116,943,234,38793]}`

func (s *NanojsonTestSuite) TestUnmarshal() {
	text := []byte(imageDoc)
	var img image
	s.Require().NoError(nanojson.Unmarshal(text, &img))
	s.Equal(800, img.Width)
	s.Equal("http://www.example.com/image/481989943", img.Thumbnail.URL)
	s.Equal([]int{116, 943, 234, 38793}, img.IDs)
	s.Equal(imageDoc, string(text))

	s.ErrorIs(nanojson.Unmarshal(text, nil), nanojson.ErrTargetNil)
	s.ErrorIs(nanojson.Unmarshal(text, img), nanojson.ErrNonPointer)

	var thumb thumbnail
	root := s.parse(imageDoc)
	s.Require().NoError(root.Item("Thumbnail").Decode(&thumb))
	s.Equal(125, thumb.Height)
	s.ErrorIs(root.Item("nope").Decode(&thumb), nanojson.ErrNilValue)
}

func (s *NanojsonTestSuite) TestFromValue() {
	in := image{
		Width:     800,
		Height:    600,
		Title:     "View from 15th Floor",
		Thumbnail: thumbnail{URL: "http://www.example.com/image/481989943", Height: 125, Width: "100"},
		IDs:       []int{116, 943, 234, 38793},
	}
	doc, err := nanojson.FromValue(in)
	s.Require().NoError(err)
	b := nanojson.Marshal(doc.Root())
	s.Equal(imageDoc, string(b))

	v, err := jsonparser.GetInt(b, "Thumbnail", "Height")
	s.Require().NoError(err)
	s.Equal(int64(125), v)

	var out image
	s.Require().NoError(doc.Root().Decode(&out))
	s.Equal(in, out)
}

func (s *NanojsonTestSuite) TestIndex() {
	root := s.parse(imageDoc)
	idx, err := nanojson.NewIndex(root)
	s.Require().NoError(err)
	s.Equal(5, idx.Len())
	s.Equal([]string{"Height", "IDs", "Thumbnail", "Title", "Width"}, idx.Keys())
	for _, key := range idx.Keys() {
		s.Equal(root.Item(key), idx.Lookup(key), key)
	}
	s.False(idx.Lookup("nope").Exists())

	_, err = nanojson.NewIndex(root.Item("IDs"))
	s.ErrorIs(err, nanojson.ErrNotObject)
}

func (s *NanojsonTestSuite) TestStreams() {
	ctx := context.Background()
	doc, err := nanojson.ReadDocument(ctx, strings.NewReader(imageDoc))
	s.Require().NoError(err)
	s.Equal(int64(943), doc.Root().Get(".IDs[1]").Number(0))

	buf := new(bytes.Buffer)
	n, err := nanojson.Encode(ctx, buf, doc.Root().Item("IDs"))
	s.Require().NoError(err)
	s.Equal("[116,943,234,38793]", buf.String())
	s.Equal(buf.Len(), n)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = nanojson.ReadDocument(canceled, strings.NewReader(imageDoc))
	s.ErrorIs(err, context.Canceled)
	_, err = nanojson.Encode(canceled, buf, doc.Root())
	s.ErrorIs(err, context.Canceled)

	p := nanojson.NewPersistence(nanojson.WithMaxBytes(10))
	_, err = p.ReadText(ctx, strings.NewReader(imageDoc))
	var errCap *nanojson.ErrCapacityExceeded
	s.ErrorAs(err, &errCap)
}

func (s *NanojsonTestSuite) TestLimits() {
	_, err := nanojson.ParseString(`[[[1]]]`, nanojson.WithMaxDepth(2))
	var errCap *nanojson.ErrCapacityExceeded
	s.Require().ErrorAs(err, &errCap)
	s.Equal("depth", errCap.Resource)

	_, err = nanojson.ParseString(`[1,2,3,4]`, nanojson.WithMaxNodes(4), nanojson.WithInitialCapacity(2))
	s.Require().ErrorAs(err, &errCap)
	s.Equal("nodes", errCap.Resource)

	doc, err := nanojson.ParseString(`[1,2,3,4]`, nanojson.WithInitialCapacity(1), nanojson.WithGrowIncrement(1))
	s.Require().NoError(err)
	s.Equal(5, doc.Len())
}

func (s *NanojsonTestSuite) TestLogger() {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	_, err := nanojson.ParseString(`[1,2,3]`,
		nanojson.WithLogger(logger), nanojson.WithInitialCapacity(2), nanojson.WithGrowIncrement(2))
	s.Require().NoError(err)
	s.NotEmpty(hook.AllEntries())
	s.Equal("node pool relocated", hook.AllEntries()[0].Message)

	hook.Reset()
	_, err = nanojson.ParseString(`[1,`, nanojson.WithLogger(logger))
	s.Error(err)
	s.Require().NotNil(hook.LastEntry())
	s.Equal("parse failed", hook.LastEntry().Message)
}

func TestNanojsonTestSuite(t *testing.T) {
	suite.Run(t, new(NanojsonTestSuite))
}

func TestCopiesAreIndependent(t *testing.T) {
	const text = `{"k":"v\u00e9"}`
	a, err := nanojson.ParseString(text)
	require.NoError(t, err)
	b, err := nanojson.ParseString(text)
	require.NoError(t, err)

	assert.Equal(t, a.Root().Item("k").String(""), b.Root().Item("k").String(""))
	assert.NotSame(t, &a.Text()[0], &b.Text()[0])
}
