package payu

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"net/url"
	"strings"
)

// RequestParams is the ordered field set signed on the outbound leg.
// Empty optional fields serialize as zero-length strings, never omitted;
// the concatenation must match the gateway byte-for-byte.
type RequestParams struct {
	Key         string
	TxnID       string
	Amount      string // decimal string, e.g. "648.00"
	ProductInfo string
	FirstName   string
	Email       string
	UDF1        string
	UDF2        string
	UDF3        string
	UDF4        string
	UDF5        string
}

// CallbackResponse is the field set the gateway posts back on all three
// callback paths. UDF1..UDF5 echo the order metadata we sent out.
type CallbackResponse struct {
	Key         string
	TxnID       string
	Amount      string
	ProductInfo string
	FirstName   string
	Email       string
	Status      string
	Hash        string
	UDF1        string
	UDF2        string
	UDF3        string
	UDF4        string
	UDF5        string
	MihPayID    string // gateway payment id
	Mode        string
	Error       string
	ErrorMsg    string
}

// RequestHash computes the outbound request hash:
//
//	sha512(key|txnid|amount|productinfo|firstname|email|udf1|udf2|udf3|udf4|udf5||||||SALT)
func RequestHash(p RequestParams, salt string) string {
	parts := []string{
		p.Key, p.TxnID, p.Amount, p.ProductInfo, p.FirstName, p.Email,
		p.UDF1, p.UDF2, p.UDF3, p.UDF4, p.UDF5,
		"", "", "", "", "",
		salt,
	}
	sum := sha512.Sum512([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// responseHash computes the return-trip hash, which reverses the field
// order per the gateway's published contract:
//
//	sha512(SALT|status||||||udf5|udf4|udf3|udf2|udf1|email|firstname|productinfo|amount|txnid|key)
func responseHash(r CallbackResponse, salt string) string {
	parts := []string{
		salt, r.Status,
		"", "", "", "", "",
		r.UDF5, r.UDF4, r.UDF3, r.UDF2, r.UDF1,
		r.Email, r.FirstName, r.ProductInfo, r.Amount, r.TxnID, r.Key,
	}
	sum := sha512.Sum512([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// VerifyResponseHash recomputes the response hash and compares it to the
// one the gateway supplied. A mismatch means the payload is untrusted;
// callers must reject it outright and leave all state untouched.
func VerifyResponseHash(r CallbackResponse, salt string) bool {
	expected := responseHash(r, salt)
	supplied := strings.ToLower(strings.TrimSpace(r.Hash))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(supplied)) == 1
}

// ParseCallback maps a form-encoded gateway callback body onto
// CallbackResponse. All three callback paths share this shape.
func ParseCallback(form url.Values) CallbackResponse {
	return CallbackResponse{
		Key:         form.Get("key"),
		TxnID:       form.Get("txnid"),
		Amount:      form.Get("amount"),
		ProductInfo: form.Get("productinfo"),
		FirstName:   form.Get("firstname"),
		Email:       form.Get("email"),
		Status:      form.Get("status"),
		Hash:        form.Get("hash"),
		UDF1:        form.Get("udf1"),
		UDF2:        form.Get("udf2"),
		UDF3:        form.Get("udf3"),
		UDF4:        form.Get("udf4"),
		UDF5:        form.Get("udf5"),
		MihPayID:    form.Get("mihpayid"),
		Mode:        form.Get("mode"),
		Error:       form.Get("error"),
		ErrorMsg:    form.Get("error_Message"),
	}
}
