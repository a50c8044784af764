package hallcfg

import (
	"encoding/json"
	"time"

	"github.com/kg112500/dynam-hikone/errs"
	"gopkg.in/yaml.v3"
)

// FromYAML
// 會讀取 YAML 設定、填入預設值並執行基本檢查後回傳。
func FromYAML(data []byte) (*HallConfig, error) {
	hc := &HallConfig{}
	if err := yaml.Unmarshal(data, hc); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshall yaml")
	}

	// 設定檔初始化
	if err := hc.init(); err != nil {
		return nil, errs.Wrap(err, "hall config initialized err")
	}

	return hc, nil
}

// FromJSON
// 會讀取 Json 設定、填入預設值並執行基本檢查後回傳。
func FromJSON(data []byte) (*HallConfig, error) {
	hc := &HallConfig{}
	if err := json.Unmarshal(data, hc); err != nil {
		return nil, errs.Wrap(err, "can not unmarshall json byte")
	}

	// 設定檔初始化
	if err := hc.init(); err != nil {
		return nil, errs.Wrap(err, "hall config initialized err")
	}

	return hc, nil
}

// Duration 讓 TTL 在 YAML / JSON 內以 "10m"、"1h" 這類字串表達。
type Duration time.Duration

// Std 轉回標準庫型別。
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return errs.Wrapf(err, "bad duration %q", s)
	}
	*d = Duration(v)
	return nil
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return errs.Wrapf(err, "bad duration %q", s)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (any, error) { return d.String(), nil }

func (d Duration) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }
