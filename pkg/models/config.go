package models

// Config 保存 proton.conf 解析出的三个目录，均为绝对路径。
type Config struct {
	Data   string `mapstructure:"data" toml:"data"`     // Proton 私有数据目录
	Steam  string `mapstructure:"steam" toml:"steam"`   // Steam 安装目录（包含 steamapps）
	Common string `mapstructure:"common" toml:"common"` // 存放各 Proton 版本的目录，通常为 steamapps/common
}
