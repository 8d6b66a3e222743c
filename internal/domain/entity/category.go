package entity

// Category представляет категорию вопросов.
// Справочник категорий заполняется миграциями и в рамках API только читается.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Type string `gorm:"size:100;not null" json:"type"`
}

// TableName определяет имя таблицы для GORM
func (Category) TableName() string {
	return "categories"
}
