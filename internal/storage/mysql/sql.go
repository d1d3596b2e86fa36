package mysql

// -----------------------------------------------------------------------------
// USERS
// -----------------------------------------------------------------------------

const insertUserSQL = `
INSERT INTO users
  (id, name, email, password_hash, role, created_at, updated_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
`

const selectUserColumns = `u.id, u.name, u.email, u.password_hash, u.role, u.created_at, u.updated_at`

const getUserByEmailSQL = `
SELECT ` + selectUserColumns + `
FROM users u
WHERE u.email = ? AND u.deleted_at IS NULL
`

const listUsersSQL = `
SELECT ` + selectUserColumns + `
FROM users u
WHERE u.deleted_at IS NULL
ORDER BY u.name, u.id
`

// -----------------------------------------------------------------------------
// CITIES
// -----------------------------------------------------------------------------

const insertCitySQL = `
INSERT INTO cities (id, name, state, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
`

const updateCitySQL = `
UPDATE cities
SET name = ?, state = ?, updated_at = ?
WHERE id = ? AND deleted_at IS NULL
`

const selectCityColumns = `c.id, c.name, c.state, c.created_at, c.updated_at`

const getCitySQL = `
SELECT ` + selectCityColumns + `
FROM cities c
WHERE c.id = ? AND c.deleted_at IS NULL
`

const listCitiesSQL = `
SELECT ` + selectCityColumns + `
FROM cities c
WHERE c.deleted_at IS NULL
ORDER BY c.name, c.id
`

// -----------------------------------------------------------------------------
// HOTELS (reads join the city)
// -----------------------------------------------------------------------------

const insertHotelSQL = `
INSERT INTO hotels (id, name, address, city_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`

const selectHotelColumns = `h.id, h.name, h.address, h.city_id, h.created_at, h.updated_at, ` + selectCityColumns

const hotelJoin = `
FROM hotels h
JOIN cities c ON c.id = h.city_id AND c.deleted_at IS NULL
`

const getHotelSQL = `
SELECT ` + selectHotelColumns + hotelJoin + `
WHERE h.id = ? AND h.deleted_at IS NULL
`

const listHotelsSQL = `
SELECT ` + selectHotelColumns + hotelJoin + `
WHERE h.deleted_at IS NULL
ORDER BY h.name, h.id
`

// -----------------------------------------------------------------------------
// ROOMS (reads join hotel and city)
// -----------------------------------------------------------------------------

const insertRoomSQL = `
INSERT INTO rooms (id, name, capacity, image, hotel_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

const deleteRoomSQL = `
UPDATE rooms SET deleted_at = ?
WHERE id = ? AND deleted_at IS NULL
`

const selectRoomColumns = `r.id, r.name, r.capacity, r.image, r.hotel_id, r.created_at, r.updated_at, ` + selectHotelColumns

const roomJoin = `
FROM rooms r
JOIN hotels h ON h.id = r.hotel_id AND h.deleted_at IS NULL
JOIN cities c ON c.id = h.city_id AND c.deleted_at IS NULL
`

const getRoomSQL = `
SELECT ` + selectRoomColumns + roomJoin + `
WHERE r.id = ? AND r.deleted_at IS NULL
`

const listRoomsByHotelSQL = `
SELECT ` + selectRoomColumns + roomJoin + `
WHERE r.hotel_id = ? AND r.deleted_at IS NULL
ORDER BY r.name, r.id
`

// -----------------------------------------------------------------------------
// BOOKINGS (owner-scoped reads by email)
// -----------------------------------------------------------------------------

const insertBookingSQL = `
INSERT INTO bookings
  (id, check_in, check_out, guest_quantity, user_id, room_id, created_at, updated_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
`

const updateBookingSQL = `
UPDATE bookings
SET check_in = ?, check_out = ?, guest_quantity = ?, room_id = ?, updated_at = ?
WHERE id = ? AND deleted_at IS NULL
`

const deleteBookingSQL = `
UPDATE bookings SET deleted_at = ?
WHERE id = ? AND deleted_at IS NULL
`

const selectBookingColumns = `b.id, b.check_in, b.check_out, b.guest_quantity, b.user_id, b.room_id, b.created_at, b.updated_at, ` +
	selectUserColumns + `, ` + selectRoomColumns

// Rooms and hotels are not filtered on deleted_at here: a booking stays
// readable after its room is retired.
const bookingJoin = `
FROM bookings b
JOIN users u  ON u.id = b.user_id AND u.deleted_at IS NULL
JOIN rooms r  ON r.id = b.room_id
JOIN hotels h ON h.id = r.hotel_id
JOIN cities c ON c.id = h.city_id
`

const listBookingsByEmailSQL = `
SELECT ` + selectBookingColumns + bookingJoin + `
WHERE u.email = ? AND b.deleted_at IS NULL
ORDER BY b.check_in, b.id
`

const getBookingByIDSQL = `
SELECT ` + selectBookingColumns + bookingJoin + `
WHERE b.id = ? AND u.email = ? AND b.deleted_at IS NULL
`
