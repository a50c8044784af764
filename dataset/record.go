// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package dataset 負責把店舗的日次出玉表（CSV / XLSX）讀成乾淨的 Record 列表：
// 欄位別名解析、數值/日期強制轉型、機種名轉換、以及逐列的日期/台番派生屬性。
package dataset

import (
	"strconv"
	"time"
)

// ZoromeNormal 是台番末尾兩碼不相同時的分類標籤。
const ZoromeNormal = "normal"

// Record 是一台機台一天的實績。
// 前五個欄位來自資料來源（台番号 / 機種 / 日付 / 総差枚 / G数），
// 其餘為載入時一次算完的派生屬性。
type Record struct {
	CabinetNo int
	Model     string
	Date      time.Time
	Diff      int // 総差枚（日次純差枚，可負）
	Spins     int // G数（日次總回轉數）

	Month         int
	Day           int
	DayDigit      int    // 日末尾 = day mod 10
	Zorome        bool   // ゾロ目の日
	CabinetDigit  int    // 台番末尾 = no mod 10
	CabinetZorome string // 台番末尾兩碼相同時為該兩碼（"22"），否則 ZoromeNormal
}

// derive 填入所有派生欄位。載入時呼叫一次，之後 Record 視為唯讀。
func (r *Record) derive() {
	r.Month = int(r.Date.Month())
	r.Day = r.Date.Day()
	r.DayDigit = DayEndingDigit(r.Day)
	r.Zorome = IsZoromeDate(r.Month, r.Day)
	r.CabinetDigit = CabinetEndingDigit(r.CabinetNo)
	r.CabinetZorome = CabinetZoromeType(r.CabinetNo)
}

// ============================================================
// ** 派生規則（stateless / total） **
// ============================================================

// DayEndingDigit 回傳日期的末尾數字（day mod 10）。
func DayEndingDigit(day int) int { return day % 10 }

// IsZoromeDate 判定 (month, day) 是否為ゾロ目の日。三條規則取 OR：
//  1. day 為 11 或 22
//  2. month == day（7/7、11/11 …）
//  3. month 與 day 的十進位串接只含一種數字（1/11 → "111"）
func IsZoromeDate(month, day int) bool {
	if day == 11 || day == 22 {
		return true
	}
	if month == day {
		return true
	}
	s := strconv.Itoa(month) + strconv.Itoa(day)
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// CabinetEndingDigit 回傳台番的末尾數字（no mod 10）。
func CabinetEndingDigit(no int) int { return no % 10 }

// CabinetZoromeType 分類台番的末尾兩碼：
// 兩碼相同（122 → "22"）回傳該兩碼字串，否則回傳 ZoromeNormal。
// 個位數台番沒有「末尾兩碼」，一律 ZoromeNormal。
func CabinetZoromeType(no int) string {
	s := strconv.Itoa(no)
	n := len(s)
	if n >= 2 && s[n-1] == s[n-2] {
		return s[n-2:]
	}
	return ZoromeNormal
}
