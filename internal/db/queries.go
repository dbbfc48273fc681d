package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"iothome/internal/models"
)

// InsertDevice stores a new device document
func (d *DB) InsertDevice(ctx context.Context, device models.Device) error {
	_, err := d.devices().InsertOne(ctx, device)
	return err
}

// GetDevice fetches a device by ID
func (d *DB) GetDevice(ctx context.Context, id string) (*models.Device, error) {
	var device models.Device
	err := d.devices().FindOne(ctx, bson.M{"id": id}).Decode(&device)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &device, nil
}

// GetAllDevices fetches every device
func (d *DB) GetAllDevices(ctx context.Context) ([]models.Device, error) {
	cursor, err := d.devices().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var devices []models.Device
	if err := cursor.All(ctx, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// UpdateDevice applies a partial field update to a device document
func (d *DB) UpdateDevice(ctx context.Context, id string, fields map[string]any) error {
	_, err := d.devices().UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M(fields)})
	return err
}

// DeleteDevice removes a device document
func (d *DB) DeleteDevice(ctx context.Context, id string) error {
	result, err := d.devices().DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountDevices counts devices matching the filter
func (d *DB) CountDevices(ctx context.Context, filter map[string]any) (int64, error) {
	return d.devices().CountDocuments(ctx, bson.M(filter))
}

// InsertSchedule stores a new schedule document
func (d *DB) InsertSchedule(ctx context.Context, schedule models.Schedule) error {
	_, err := d.schedules().InsertOne(ctx, schedule)
	return err
}

// GetSchedule fetches a schedule by ID
func (d *DB) GetSchedule(ctx context.Context, id string) (*models.Schedule, error) {
	var schedule models.Schedule
	err := d.schedules().FindOne(ctx, bson.M{"id": id}).Decode(&schedule)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// GetAllSchedules fetches every schedule
func (d *DB) GetAllSchedules(ctx context.Context) ([]models.Schedule, error) {
	return d.findSchedules(ctx, bson.M{})
}

// GetActiveSchedules fetches schedules with is_active=true
func (d *DB) GetActiveSchedules(ctx context.Context) ([]models.Schedule, error) {
	return d.findSchedules(ctx, bson.M{"is_active": true})
}

// GetSchedulesByDevice fetches schedules targeting one device
func (d *DB) GetSchedulesByDevice(ctx context.Context, deviceID string) ([]models.Schedule, error) {
	return d.findSchedules(ctx, bson.M{"device_id": deviceID})
}

func (d *DB) findSchedules(ctx context.Context, filter bson.M) ([]models.Schedule, error) {
	cursor, err := d.schedules().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var schedules []models.Schedule
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

// UpdateSchedule applies a partial field update to a schedule document
func (d *DB) UpdateSchedule(ctx context.Context, id string, fields map[string]any) error {
	_, err := d.schedules().UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M(fields)})
	return err
}

// SetScheduleActive flips a schedule's is_active flag
func (d *DB) SetScheduleActive(ctx context.Context, id string, active bool) error {
	_, err := d.schedules().UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"is_active": active}})
	return err
}

// DeleteSchedule removes a schedule document
func (d *DB) DeleteSchedule(ctx context.Context, id string) error {
	result, err := d.schedules().DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountSchedules counts schedules matching the filter
func (d *DB) CountSchedules(ctx context.Context, filter map[string]any) (int64, error) {
	return d.schedules().CountDocuments(ctx, bson.M(filter))
}

// InsertLog appends a device log entry
func (d *DB) InsertLog(ctx context.Context, entry models.DeviceLog) error {
	_, err := d.deviceLogs().InsertOne(ctx, entry)
	return err
}

// GetLogs fetches log entries newest-first, optionally filtered by device
func (d *DB) GetLogs(ctx context.Context, deviceID string, limit int64) ([]models.DeviceLog, error) {
	filter := bson.M{}
	if deviceID != "" {
		filter["device_id"] = deviceID
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(limit)
	cursor, err := d.deviceLogs().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []models.DeviceLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
