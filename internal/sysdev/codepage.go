package sysdev

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/allbin/go-mode"
)

// CodePageUTF8 is the Windows identifier of UTF-8.
const CodePageUTF8 = 65001

// codePages maps Windows code page identifiers to their character maps.
var codePages = map[uint32]*charmap.Charmap{
	37:    charmap.CodePage037,
	437:   charmap.CodePage437,
	850:   charmap.CodePage850,
	852:   charmap.CodePage852,
	855:   charmap.CodePage855,
	858:   charmap.CodePage858,
	860:   charmap.CodePage860,
	862:   charmap.CodePage862,
	863:   charmap.CodePage863,
	865:   charmap.CodePage865,
	866:   charmap.CodePage866,
	874:   charmap.Windows874,
	1047:  charmap.CodePage1047,
	1140:  charmap.CodePage1140,
	1250:  charmap.Windows1250,
	1251:  charmap.Windows1251,
	1252:  charmap.Windows1252,
	1253:  charmap.Windows1253,
	1254:  charmap.Windows1254,
	1255:  charmap.Windows1255,
	1256:  charmap.Windows1256,
	1257:  charmap.Windows1257,
	1258:  charmap.Windows1258,
	10000: charmap.Macintosh,
	10007: charmap.MacintoshCyrillic,
	20866: charmap.KOI8R,
	21866: charmap.KOI8U,
	28591: charmap.ISO8859_1,
	28592: charmap.ISO8859_2,
	28593: charmap.ISO8859_3,
	28594: charmap.ISO8859_4,
	28595: charmap.ISO8859_5,
	28596: charmap.ISO8859_6,
	28597: charmap.ISO8859_7,
	28598: charmap.ISO8859_8,
	28599: charmap.ISO8859_9,
	28600: charmap.ISO8859_10,
	28603: charmap.ISO8859_13,
	28604: charmap.ISO8859_14,
	28605: charmap.ISO8859_15,
	28606: charmap.ISO8859_16,
}

// CodePageEncoding returns the text encoding of a code page.
func CodePageEncoding(cp uint32) (encoding.Encoding, error) {
	if cp == CodePageUTF8 {
		return unicode.UTF8, nil
	}
	if cm, ok := codePages[cp]; ok {
		return cm, nil
	}
	return nil, fmt.Errorf("%w: code page %d", mode.ErrUnsupported, cp)
}

// CodePageName returns a human readable name, e.g. "IBM Code Page 437".
func CodePageName(cp uint32) string {
	if cp == CodePageUTF8 {
		return "UTF-8"
	}
	if cm, ok := codePages[cp]; ok {
		return cm.String()
	}
	return fmt.Sprintf("code page %d", cp)
}

// DefaultCodePage derives a code page from the locale environment: UTF-8
// locales map to 65001, anything else to 437.
func DefaultCodePage() uint32 {
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		v = strings.ToLower(v)
		if strings.Contains(v, "utf-8") || strings.Contains(v, "utf8") {
			return CodePageUTF8
		}
		return 437
	}
	return 437
}
