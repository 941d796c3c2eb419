// Package dto はtrackerフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"bytes"
	"encoding/json"
)

// Scalar は型が保証されないリクエストフィールドを保持します。
// JSONとフォームの両方からバインドでき、値が文字列だったかどうかを記録します。
// Present はフィールドが存在しnullでないこと、Text は文字列値または
// 文字列以外のJSONリテラルそのものを表します。
type Scalar struct {
	Present  bool   `form:"-"`
	IsString bool   `form:"-"`
	Text     string `form:"-"`
}

// UnmarshalJSON は数値などの非文字列もエラーにせず記録します。
func (s *Scalar) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = Scalar{}
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = Scalar{Present: true, IsString: true, Text: str}
		return nil
	}
	*s = Scalar{Present: true, Text: string(b)}
	return nil
}

// UnmarshalParam はginのフォーム/クエリバインディングから呼ばれます。
func (s *Scalar) UnmarshalParam(param string) error {
	*s = Scalar{Present: true, IsString: true, Text: param}
	return nil
}

// StringPtr は文字列値へのポインタを返します。文字列でない場合はnilです。
func (s Scalar) StringPtr() *string {
	if !s.Present || !s.IsString {
		return nil
	}
	v := s.Text
	return &v
}

// Raw は値をテキストとして返します。存在しない場合は空文字です。
func (s Scalar) Raw() string {
	if !s.Present {
		return ""
	}
	return s.Text
}
