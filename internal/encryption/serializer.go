package encryption

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"gorm.io/gorm/schema"
)

var (
	keyMu     sync.RWMutex
	secretKey []byte
)

func init() {
	schema.RegisterSerializer("secret", SecretSerializer{})
}

// SetKey configures the key used by the "secret" gorm serializer. A nil key
// stores secrets as plaintext.
func SetKey(key []byte) error {
	if key != nil {
		if _, err := newGCM(key); err != nil {
			return err
		}
	}

	keyMu.Lock()
	defer keyMu.Unlock()

	secretKey = key

	return nil
}

func currentKey() []byte {
	keyMu.RLock()
	defer keyMu.RUnlock()

	return secretKey
}

// SecretSerializer encrypts string columns tagged `gorm:"serializer:secret"`.
type SecretSerializer struct{}

func (SecretSerializer) Scan(ctx context.Context, field *schema.Field, dst reflect.Value, dbValue interface{}) error {
	var stored string

	switch v := dbValue.(type) {
	case nil:
	case string:
		stored = v
	case []byte:
		stored = string(v)
	default:
		return fmt.Errorf("%w: got %T", ErrUnsupportedType, dbValue)
	}

	plain := stored

	if IsEncrypted(stored) {
		key := currentKey()

		if key == nil {
			return fmt.Errorf("%w: no secret key configured for %s", ErrDecrypt, field.Name)
		}

		var err error
		plain, err = DecryptString(stored, key)

		if err != nil {
			return err
		}
	}

	field.ReflectValueOf(ctx, dst).SetString(plain)

	return nil
}

func (SecretSerializer) Value(_ context.Context, _ *schema.Field, _ reflect.Value, fieldValue interface{}) (interface{}, error) {
	plain, ok := fieldValue.(string)

	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrUnsupportedType, fieldValue)
	}

	key := currentKey()

	if key == nil {
		return plain, nil
	}

	return EncryptString(plain, key)
}
