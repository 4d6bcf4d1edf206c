package serializer

import (
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/nanojson/domain"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/parser"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/pool"
)

const imageDoc = `{
      "Image": {
          "Width":  800,
          "Height": 600,
          "Title":  "View from 15th Floor",
          "Thumbnail": {
              "Url":    "http://www.example.com/image/481989943",
              "Height": 125,
              "Width":  "100"
          },
          "IDs": [116, 943, 234, 38793]
        }
   }
`

const imageCompact = `{"Image":{"Width":800,"Height":600,"Title":"View from 15th Floor","Thumbnail":` +
	`{"Url":"http://www.example.com/image/481989943","Height":125,"Width":"100"},"IDs":[116,943,234,38793]}}`

const geoDoc = `   [
      {
         "precision": "zip",
         "Latitude":  37.7668,
         "Longitude": -122.3959,
         "Address":   "",
         "City":      "SAN FRANCISCO",
         "State":     "CA",
         "Zip":       "94107",
         "Country":   "US"
      },
      {
         "precision": "zip",
         "Latitude":  37.371991,
         "Longitude": -122.026020,
         "Address":   "",
         "City":      "SUNNYVALE",
         "State":     "CA",
         "Zip":       "94085",
         "Country":   "US"
      }
   ]
`

const geoCompact = `[{"precision":"zip","Latitude":37.7668,"Longitude":-122.3959,"Address":"","City":"SAN FRANCISCO","State":"CA","Zip":"94107","Country":"US"},` +
	`{"precision":"zip","Latitude":37.371991,"Longitude":-122.02602,"Address":"","City":"SUNNYVALE","State":"CA","Zip":"94085","Country":"US"}]`

const rpcDoc = `[{"jsonrpc":"2.0","id":"0","method":"capabilities","params":{}},{"jsonrpc":"2.0","id":"1","method":"capabilities","params":{}}]`

type SerializerTestSuite struct {
	suite.Suite
	s domain.Stringifier
}

func (s *SerializerTestSuite) SetupTest() {
	s.s = NewSerializer()
}

func (s *SerializerTestSuite) parse(text string, options ...domain.ParseOption) *domain.Tree {
	t, err := parser.NewParser(options...).ParseTree([]byte(text), pool.NewGrowable(domain.NewParseOptions(options...)))
	s.Require().NoError(err, text)
	return t
}

func (s *SerializerTestSuite) TestSamples() {
	cases := []struct {
		in, out string
	}{
		{in: "  null  ", out: "null"},
		{in: " true   ", out: "true"},
		{in: "false   ", out: "false"},
		{in: `  "as\\123dfg"  `, out: `"as\\123dfg"`},
		{in: ` "\b\f\n\r\u0001\t"`, out: `"\b\f\n\r\u0001\t"`},
		{in: `"русские буквы"`, out: `"русские буквы"`},
		{in: "\"werw\xbc\001erer\"", out: "\"werw\xbc\\u0001erer\""},
		{in: `"a\/b"`, out: `"a/b"`},
		{in: "1", out: "1"},
		{in: "-1", out: "-1"},
		{in: "100000000000", out: "100000000000"},
		{in: " [ ] ", out: "[]"},
		{in: "{} ", out: "{}"},
		{in: " [ { } ]", out: "[{}]"},
		{in: `{"t":[]}`, out: `{"t":[]}`},
		{in: "12312312", out: "12312312"},
		{in: "[1,\n2, -555 ,true,false,null]", out: "[1,2,-555,true,false,null]"},
		{in: ` { "b" : 1 } `, out: `{"b":1}`},
		{in: `[{ "jsonrpc": "2.0","id":"0","method":"capabilities","params":{}},{"jsonrpc":"2.0","id":"1","method":"capabilities","params":{}}]`, out: rpcDoc},
		{in: imageDoc, out: imageCompact},
		{in: geoDoc, out: geoCompact},
	}
	for _, tc := range cases {
		t := s.parse(tc.in)
		s.Equal(tc.out, string(s.s.Marshal(t, 0)), tc.in)
	}
}

func (s *SerializerTestSuite) TestRoundTripCanonical() {
	for _, text := range []string{
		"[1,2,-555,true,false,null]",
		`{"a":1}`,
		`{"a":{"b":[1,{"c":"d"},[]]},"e":{}}`,
		`"quote \" backslash \\ newline \n"`,
		rpcDoc,
		imageCompact,
		geoCompact,
	} {
		t := s.parse(text)
		out := s.s.Marshal(t, 0)
		s.Equal(text, string(out))
		s.True(jsoniter.Valid(out), text)
	}
}

func (s *SerializerTestSuite) TestUndefined() {
	t := s.parse("[1,null]")
	t.Nodes[2].Reset()
	s.Equal("[1,undefined]", string(s.s.Marshal(t, 0)))
	s.Equal("undefined", string(s.s.Marshal(t, 2)))
	s.Equal(len("[1,undefined]"), s.s.Stringify(nil, t, 0))
}

func (s *SerializerTestSuite) TestSubtree() {
	t := s.parse(`{"a":{"b":[1,2]},"c":3}`)
	s.Equal(`{"b":[1,2]}`, string(s.s.Marshal(t, 1)))
	s.Equal(`[1,2]`, string(s.s.Marshal(t, 2)))
	s.Equal(``, string(s.s.Marshal(t, -1)))
}

func (s *SerializerTestSuite) TestAgreesWithJSONIterator() {
	t := s.parse(geoDoc)
	out := s.s.Marshal(t, 0)

	var fromSource, fromOutput []map[string]any
	s.Require().NoError(jsoniter.Unmarshal([]byte(geoCompact), &fromSource))
	s.Require().NoError(jsoniter.Unmarshal(out, &fromOutput))
	s.Equal(fromSource, fromOutput)
}

func (s *SerializerTestSuite) TestTruncation() {
	t := s.parse("[1,2,-555,true,false,null]")
	const full = "[1,2,-555,true,false,null]"

	dst := make([]byte, 10)
	n := s.s.Stringify(dst, t, 0)
	s.Equal(len(full), n)
	s.Equal(full[:9], string(dst[:9]))
	s.Equal(byte(0), dst[9])

	dst = make([]byte, len(full)+1)
	n = s.s.Stringify(dst, t, 0)
	s.Equal(len(full), n)
	s.Equal(full, string(dst[:n]))
	s.Equal(byte(0), dst[n])

	dst = make([]byte, len(full))
	n = s.s.Stringify(dst, t, 0)
	s.Equal(len(full), n)
	s.Equal(full[:len(full)-1], string(dst[:len(full)-1]))
	s.Equal(byte(0), dst[len(full)-1])

	dst = []byte{'x'}
	s.Equal(len(full), s.s.Stringify(dst, t, 0))
	s.Equal(byte(0), dst[0])

	s.Equal(len(full), s.s.Stringify(nil, t, 0))
}

func (s *SerializerTestSuite) TestTruncationKeepsEscapesWhole() {
	t := s.parse(`["ab\ncd"]`)
	// the output is 10 bytes; room for 5 cuts inside the escape
	dst := []byte("xxxxxxxx")
	n := s.s.Stringify(dst[:6], t, 0)
	s.Equal(10, n)
	s.Equal(`["ab`, string(dst[:4]))
	s.Equal(byte(0), dst[4])
}

func (s *SerializerTestSuite) TestEscapeUnicode() {
	t := s.parse("{\"clé\":\"日本 \U0001f600\"}")
	ascii := NewSerializer(domain.WithEscapeUnicode(true))
	out := ascii.Marshal(t, 0)
	s.Equal(`{"cl\u00e9":"\u65e5\u672c \ud83d\ude00"}`, string(out))
	for _, c := range out {
		s.Less(c, byte(0x80))
	}

	var decoded map[string]string
	s.Require().NoError(jsoniter.Unmarshal(out, &decoded))
	s.Equal("日本 \U0001f600", decoded["clé"])
}

func (s *SerializerTestSuite) TestIndent() {
	t := s.parse(`{"a":[1,2],"b":{},"c":[]}`)
	pretty := NewSerializer(domain.WithIndent("", "  "))
	want := "{\n" +
		"  \"a\": [\n" +
		"    1,\n" +
		"    2\n" +
		"  ],\n" +
		"  \"b\": {},\n" +
		"  \"c\": []\n" +
		"}"
	out := pretty.Marshal(t, 0)
	s.Equal(want, string(out))
	s.True(jsoniter.Valid(out))

	prefixed := NewSerializer(domain.WithIndent("> ", "\t"))
	s.Equal("[\n> \t1\n> ]", string(prefixed.Marshal(s.parse("[1]"), 0)))
}

func (s *SerializerTestSuite) TestFloats() {
	t := s.parse("[1.5,-122.026020,1e21,0.000001,2.50]")
	s.Equal("[1.5,-122.02602,1e+21,1e-06,2.5]", string(s.s.Marshal(t, 0)))
	s.True(jsoniter.Valid(s.s.Marshal(t, 0)))
}

func (s *SerializerTestSuite) TestHexAndWrap() {
	t := s.parse("[0x40,-0x100]", domain.WithHexNumbers(true))
	s.Equal("[64,-256]", string(s.s.Marshal(t, 0)))

	t = s.parse("[100000000000,4294967296]", domain.WithNumberWidth(32), domain.WithOverflow(domain.OverflowWrap))
	s.Equal("[1215752192,0]", string(s.s.Marshal(t, 0)))
}

func TestSerializerTestSuite(t *testing.T) {
	suite.Run(t, new(SerializerTestSuite))
}
