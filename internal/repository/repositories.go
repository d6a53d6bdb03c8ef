package repository

// Repositories groups every repository.
type Repositories struct {
	Products  *ProductRepository
	Customers *CustomerRepository
	Orders    *OrderRepository
	Repairs   *RepairRepository
	Settings  *SettingRepository
	Analytics *AnalyticsRepository
}

func NewRepositories() *Repositories {
	return &Repositories{
		Products:  &ProductRepository{},
		Customers: &CustomerRepository{},
		Orders:    &OrderRepository{},
		Repairs:   &RepairRepository{},
		Settings:  &SettingRepository{},
		Analytics: &AnalyticsRepository{},
	}
}
