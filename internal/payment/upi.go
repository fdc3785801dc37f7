// Package payment формирует платёжные ссылки UPI для оплаты курсов.
package payment

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/mmeshcher/trademaster/internal/model"
)

// Currency содержит код валюты платежа.
const Currency = "INR"

var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeComponent кодирует строку для подстановки в ссылку так же, как encodeURIComponent в браузере.
func EncodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

// Note возвращает комментарий к платежу за курс.
func Note(course model.Course) string {
	return "Course: " + course.Title
}

// DeepLink строит ссылку upi://pay для оплаты курса по реквизитам получателя.
// Адрес получателя подставляется как есть.
func DeepLink(upi model.UPIDetails, course model.Course) string {
	var b strings.Builder
	b.WriteString("upi://pay?pa=")
	b.WriteString(upi.VPA)
	b.WriteString("&pn=")
	b.WriteString(EncodeComponent(upi.Name))
	b.WriteString("&am=")
	b.WriteString(strconv.FormatInt(course.Price, 10))
	b.WriteString("&cu=")
	b.WriteString(Currency)
	b.WriteString("&tn=")
	b.WriteString(EncodeComponent(Note(course)))
	return b.String()
}
