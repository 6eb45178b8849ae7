package database

// Config holds configuration for the database connection.
type Config struct {
	// Host is the database host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port.
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user.
	User string `mapstructure:"user" default:"root"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Name is the database name. For sqlite it is the file path or DSN.
	Name string `mapstructure:"name" default:"company"`
	// Driver is the database driver (mysql, sqlite).
	Driver string `mapstructure:"driver" default:"mysql"`
	// TimeoutSeconds bounds connection setup and every read/write on the wire.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxIdleConns is the size of the idle pool.
	MaxIdleConns int `mapstructure:"max_idle_conns" default:"2"`
	// MaxOpenConns caps open connections. The reconciler is sequential, so a small pool is enough.
	MaxOpenConns int `mapstructure:"max_open_conns" default:"4"`
}
